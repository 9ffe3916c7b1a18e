package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	recommendTopN int
	recommendJSON bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <reference>",
	Short: "Items frequently bought together with a product",
	Long: `Show products frequently co-purchased with the given reference, ranked by
observed co-purchase frequency.

Example:
  partfinder recommend AB1234-X --top-n 3`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().IntVar(&recommendTopN, "top-n", 0, "number of recommendations (default from config)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "output as JSON")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	session, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	if !session.Recommender().Ready() {
		fmt.Println("Recommendations are unavailable (no purchase data loaded).")
		return nil
	}

	recs := session.Recommender().RecommendationsWithProducts(args[0], session.Products(), recommendTopN)

	if recommendJSON {
		output, _ := json.MarshalIndent(recs, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(recs) == 0 {
		fmt.Printf("No recommendations for %q.\n", args[0])
		return nil
	}

	fmt.Printf("Frequently bought together with %s:\n\n", args[0])
	for _, rec := range recs {
		fmt.Printf("  %-16s %s - %s\n", rec.Product.ReferenceNumber, rec.Product.Name, rec.Reason)
	}
	return nil
}
