package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/steelquote/internal/rates"
)

func newRatesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rates [name-or-path]",
		Short: "List built-in rate cards or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				names, err := rates.List()
				if err != nil {
					return fmt.Errorf("failed to list rate cards: %w", err)
				}
				for _, n := range names {
					marker := ""
					if n == rates.DefaultCard {
						marker = " (default)"
					}
					fmt.Fprintf(out, "%s%s\n", n, marker)
				}
				return nil
			}

			card, err := rates.Resolve(args[0])
			if err != nil {
				return exitError(exitInput, "failed to load rate card: %v", err)
			}

			var data []byte
			switch format {
			case "yaml":
				data, err = yaml.Marshal(card)
			case "json":
				data, err = json.MarshalIndent(card, "", "  ")
				data = append(data, '\n')
			default:
				return exitError(exitInput, "unknown format: %s", format)
			}
			if err != nil {
				return fmt.Errorf("failed to marshal rate card: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	return cmd
}
