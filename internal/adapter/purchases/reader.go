package purchases

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"partfinder/internal/domain"
)

// Purchase exports vary in how they were produced; files arrive in a
// handful of encodings. Each is tried in order until one decodes and
// parses.
var fallbackEncodings = []struct {
	name    string
	charmap *charmap.Charmap
}{
	{name: "utf-8"},
	{name: "latin-1", charmap: charmap.ISO8859_1},
	{name: "cp1252", charmap: charmap.Windows1252},
	{name: "iso-8859-1", charmap: charmap.ISO8859_1},
}

// ReadFile loads a tabular purchase-history CSV, trying each known
// encoding in turn. The first row is treated as the header.
func ReadFile(path string) (domain.PurchaseTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PurchaseTable{}, fmt.Errorf("failed to read purchase data: %w", err)
	}

	var lastErr error
	for _, enc := range fallbackEncodings {
		table, err := parse(data, enc.charmap)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", enc.name, err)
			continue
		}
		return table, nil
	}

	return domain.PurchaseTable{}, fmt.Errorf("failed to decode purchase data with any known encoding: %w", lastErr)
}

func parse(data []byte, cm *charmap.Charmap) (domain.PurchaseTable, error) {
	var r io.Reader = bytes.NewReader(data)
	if cm == nil {
		if !utf8.Valid(data) {
			return domain.PurchaseTable{}, fmt.Errorf("not valid UTF-8")
		}
	} else {
		r = transform.NewReader(r, cm.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return domain.PurchaseTable{}, fmt.Errorf("csv parse failed: %w", err)
	}
	if len(records) < 2 {
		return domain.PurchaseTable{}, fmt.Errorf("no purchase rows")
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}

	return domain.PurchaseTable{Columns: header, Rows: records[1:]}, nil
}
