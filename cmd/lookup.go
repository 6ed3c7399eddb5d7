package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"vahan-rc-bot/config"
	"vahan-rc-bot/internal/services"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <plate>",
	Short: "Look up a single plate and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().Bool("json", false, "Print the record as JSON")
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	plate, err := services.Normalize(args[0])
	if err != nil {
		return fmt.Errorf("%q: %w", args[0], err)
	}

	res := initLookup(cfg).Lookup(cmd.Context(), plate)

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		if err := writeResultJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	} else {
		writeResultTable(cmd.OutOrStdout(), res)
	}

	if res.Outcome == services.OutcomeUnavailable {
		return fmt.Errorf("lookup %s: %w", plate, res.Err)
	}
	return nil
}

func writeResultTable(w io.Writer, res services.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(res.Plate)
	t.AppendHeader(table.Row{"Field", "Value"})

	switch res.Outcome {
	case services.OutcomeFound:
		for _, f := range res.Record.Fields {
			t.AppendRow(table.Row{f.Label, f.Value})
		}
	case services.OutcomeNotFound:
		t.AppendRow(table.Row{"-", "no data found"})
	case services.OutcomeUnavailable:
		t.AppendRow(table.Row{"-", "registry unavailable"})
	}

	t.Render()
}

func writeResultJSON(w io.Writer, res services.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Plate   string `json:"plate"`
		Outcome string `json:"outcome"`
		Fields  any    `json:"fields"`
	}{
		Plate:   res.Plate,
		Outcome: res.Outcome.String(),
		Fields:  res.Record.Map(),
	})
}
