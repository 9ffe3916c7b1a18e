package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	browseLimit int
	browseJSON  bool
)

var browseCmd = &cobra.Command{
	Use:   "browse <category>",
	Short: "List products of one category",
	Long: `List products from a catalog category in index order. Browse results are
not relevance-ranked.

Example:
  partfinder browse "Labels & Decals" --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().IntVar(&browseLimit, "limit", 20, "maximum number of products")
	browseCmd.Flags().BoolVar(&browseJSON, "json", false, "output as JSON")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	session, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	results := session.Engine().ProductsByCategory(args[0], browseLimit)

	if browseJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Printf("No products in category %q.\n", args[0])
		return nil
	}

	fmt.Printf("%d products in %q:\n\n", len(results), args[0])
	for _, r := range results {
		fmt.Printf("  %-16s %s (page %d)\n", r.Product.ReferenceNumber, r.Product.Name, r.Product.PageNumber)
	}
	return nil
}
