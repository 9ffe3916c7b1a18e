package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var lookupJSON bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <reference>",
	Short: "Exact reference-number lookup",
	Long: `Find a product by its exact catalog reference number. Matching is
case-insensitive.

Example:
  partfinder lookup AB1234-X`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "output as JSON")
}

func runLookup(cmd *cobra.Command, args []string) error {
	session, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	result, ok := session.Engine().SearchByReference(args[0])
	if !ok {
		fmt.Printf("No product found with reference %q.\n", args[0])
		return nil
	}

	if lookupJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	p := result.Product
	fmt.Printf("%s\n", p.Name)
	fmt.Printf("  Reference: %s\n", p.ReferenceNumber)
	fmt.Printf("  Category:  %s\n", p.Category)
	fmt.Printf("  Location:  page %d in %s\n", p.PageNumber, p.CatalogSource)
	fmt.Printf("  %s\n", p.Description)
	return nil
}
