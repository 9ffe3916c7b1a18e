package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"partfinder/internal/usecase"
)

var ingestExport bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract catalogs and build the search index",
	Long: `Extract product records from the configured catalog text sources, build
the semantic index (reusing the persisted index when the document set is
unchanged) and load purchase history for recommendations.

Examples:
  partfinder ingest
  partfinder ingest --export   # also write products.json / products.csv`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestExport, "export", false, "export extracted products to the processed-data directory")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if len(cfg.Catalogs) == 0 {
		return fmt.Errorf("no catalogs configured; add catalogs to partfinder.yaml")
	}

	var bar *progressbar.ProgressBar
	progress := func(processed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan]Extracting[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	}

	session := usecase.NewSession(cfg, nil)
	defer session.Close()

	if err := session.Init(cmd.Context(), progress); err != nil {
		return err
	}

	status := session.Status()
	stats := usecase.Stats(session.Products())

	fmt.Printf("\nIngest complete:\n")
	fmt.Printf("  Catalogs processed: %d\n", status.CatalogsProcessed)
	fmt.Printf("  Products extracted: %d\n", stats.TotalProducts)
	for category, n := range stats.ByCategory {
		fmt.Printf("    %-24s %d\n", category+":", n)
	}
	fmt.Printf("  Search ready:       %v\n", status.SearchReady)
	fmt.Printf("  Recommendations:    %v\n", status.RecommendationsAvailable)

	if len(status.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, w := range status.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	if ingestExport {
		if err := usecase.Export(session.Products(), cfg.Data.ProcessedDir); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("\nProducts exported to %s\n", cfg.Data.ProcessedDir)
	}

	fmt.Printf("\nIndex stored at: %s\n", cfg.IndexCachePath())
	return nil
}
