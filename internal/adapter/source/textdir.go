package source

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"partfinder/internal/domain"
)

var pageFilePattern = regexp.MustCompile(`(?i)page[-_]?(\d+)\.txt$`)

// TextSource reads pre-extracted catalog text from disk. PDF decoding
// happens upstream; this adapter only sees its plain-text output, either as
// a directory of per-page files (page-001.txt, page-002.txt, ...) or as a
// single .txt dump with form-feed page separators, the convention used by
// pdftotext.
type TextSource struct{}

func NewTextSource() *TextSource {
	return &TextSource{}
}

func (s *TextSource) Pages(path string) ([]domain.Page, []string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog not readable: %w", err)
	}

	if info.IsDir() {
		return s.pagesFromDir(path)
	}
	return s.pagesFromFile(path)
}

func (s *TextSource) pagesFromDir(dir string) ([]domain.Page, []string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "**", "*.txt"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan catalog directory: %w", err)
	}

	var pages []domain.Page
	var warnings []string
	for _, match := range matches {
		m := pageFilePattern.FindStringSubmatch(filepath.Base(match))
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil || num < 1 {
			continue
		}

		data, err := os.ReadFile(match)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", num, err))
			continue
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}

		pages = append(pages, domain.Page{Number: num, Text: string(data)})
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })

	if len(pages) == 0 && len(warnings) == 0 {
		return nil, nil, fmt.Errorf("no page files found in %s", dir)
	}
	return pages, warnings, nil
}

func (s *TextSource) pagesFromFile(path string) ([]domain.Page, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog not readable: %w", err)
	}

	var pages []domain.Page
	for i, text := range strings.Split(string(data), "\f") {
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: i + 1, Text: text})
	}

	if len(pages) == 0 {
		return nil, nil, fmt.Errorf("catalog %s contains no text", path)
	}
	return pages, nil, nil
}
