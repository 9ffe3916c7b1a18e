package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	askQuery string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a customer query end to end",
	Long: `Run the full query pipeline: classify the query, search or look up
products, attach co-purchase recommendations and generate a response.
With an OpenAI responder configured the response is model-generated;
otherwise a deterministic template with the same product facts is used.

Examples:
  partfinder ask -q "I need a warning label for a forklift"
  partfinder ask -q "AB1234-X"`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuery, "query", "q", "", "customer query (required)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	session, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	result := session.Process(cmd.Context(), askQuery)

	if askJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(result.Response)
	fmt.Printf("\n[%s, %d products, %d recommendations, %s]\n",
		result.Type, len(result.Products), len(result.Recommendations), result.Elapsed.Round(time.Millisecond))
	return nil
}
