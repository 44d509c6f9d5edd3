package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Enumerate the registered hook handlers",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "emit machine-readable JSON")
	rootCmd.AddCommand(listCmd)
}

type hookListing struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"displayName"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	TriggerEvent string   `json:"triggerEvent"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	if deps == nil || deps.Registry == nil {
		InitDependencies()
	}

	var listings []hookListing
	for _, d := range deps.Registry.Descriptors() {
		listings = append(listings, hookListing{
			ID:           d.ID,
			DisplayName:  d.DisplayName,
			Description:  d.Description,
			Category:     string(d.Category),
			TriggerEvent: string(d.TriggerEvent),
			Dependencies: d.Dependencies,
		})
	}

	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}

	var pairs []kvPair
	for _, l := range listings {
		pairs = append(pairs, kvPair{l.ID, fmt.Sprintf("%s (%s, on %s)", l.DisplayName, l.Category, l.TriggerEvent)})
	}
	fmt.Fprintln(out, renderCard("Registered hooks", renderKeyValueLines(pairs)))
	return nil
}
