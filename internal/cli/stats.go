package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"partfinder/internal/usecase"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pipeline status and index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	session, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	status := session.Status()
	engine := session.Engine().Stats()
	recs := session.Recommender().Stats()
	catalog := usecase.Stats(session.Products())

	if statsJSON {
		output, _ := json.MarshalIndent(map[string]any{
			"status":      status,
			"engine":      engine,
			"recommender": recs,
			"catalog":     catalog,
		}, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Session:\n")
	fmt.Printf("  Initialized:     %v\n", status.Initialized)
	fmt.Printf("  Search ready:    %v\n", status.SearchReady)
	fmt.Printf("  Recommendations: %v\n", status.RecommendationsAvailable)
	fmt.Printf("  Responder:       %s\n", status.ResponderModel)

	fmt.Printf("\nIndex:\n")
	fmt.Printf("  Documents:  %d\n", engine.TotalDocuments)
	fmt.Printf("  Vectors:    %d\n", engine.IndexSize)
	fmt.Printf("  Dimension:  %d\n", engine.Dimension)
	fmt.Printf("  Cached:     %v\n", engine.CacheExists)
	for category, n := range engine.Categories {
		fmt.Printf("    %-24s %d\n", category+":", n)
	}

	fmt.Printf("\nAssociations:\n")
	fmt.Printf("  Products:     %d\n", recs.TotalProducts)
	fmt.Printf("  Associations: %d\n", recs.TotalAssociations)
	fmt.Printf("  Avg/product:  %.1f\n", recs.AvgPerProduct)

	fmt.Printf("\nCatalog:\n")
	fmt.Printf("  Products: %d\n", catalog.TotalProducts)
	for source, n := range catalog.ByCatalog {
		fmt.Printf("    %-24s %d\n", source+":", n)
	}

	if len(status.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, w := range status.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
	return nil
}
