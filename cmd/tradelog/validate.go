package tradelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/vignesh-goutham/tradelog/pkg/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a trade without storing it",
	Long: `Validate a trade JSON document and print the canonical record that would be
stored. Reads stdin when no file is given.

Example:
  echo '{"PK":"u1","SK":"t1","symbol":"aapl",...}' | tradelog validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		record, err := validate.Decode(body, cfg.Keys())
		if err != nil {
			var missing *validate.MissingFieldsError
			if errors.As(err, &missing) {
				for _, field := range missing.Fields {
					fmt.Fprintf(cmd.OutOrStdout(), "missing: %s\n", field)
				}
			}
			return err
		}

		encoded, err := json.MarshalIndent(printable(record.Item(cfg.Keys())), "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding record: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// printable replaces NaN and infinite numbers, which JSON cannot carry, with their
// JavaScript spelling
func printable(item map[string]any) map[string]any {
	for name, v := range item {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			item[name] = validate.FormatNumber(f)
		}
	}
	return item
}
