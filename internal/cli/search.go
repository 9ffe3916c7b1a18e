package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchQuery    string
	searchTopK     int
	searchCategory string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Semantic product search",
	Long: `Search products by free-text description using the semantic index.

Examples:
  partfinder search -q "safety warning label"
  partfinder search -q "forklift attachment" --top-k 10 --category "Handling Equipment"`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "restrict results to one category")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	session, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	results := session.Engine().Search(cmd.Context(), searchQuery, searchTopK, searchCategory)

	if searchJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", len(results), searchQuery)
	for i, r := range results {
		fmt.Printf("--- [%d] %s (%s, score: %.2f) ---\n", i+1, r.Product.Name, r.Product.ReferenceNumber, r.Score)
		fmt.Printf("Category: %s | Page %d in %s\n", r.Metadata.Category, r.Metadata.Page, r.Metadata.Source)
		fmt.Println(r.Snippet)
		fmt.Println()
	}
	return nil
}
