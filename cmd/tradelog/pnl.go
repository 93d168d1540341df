package tradelog

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vignesh-goutham/tradelog/pkg/journal"
)

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Summarize realized profit and loss for a partition key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		trades, err := loadTrades(cmd)
		if err != nil {
			return err
		}

		summary := journal.Summarize(trades)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, strings.Repeat("=", 40))
		fmt.Fprintln(out, "REALIZED P/L")

		table := tablewriter.NewWriter(out)
		table.Header("Symbol", "P/L Amount")
		for _, symbol := range summary.Symbols() {
			table.Append([]string{symbol, "$" + summary.BySymbol[symbol].StringFixed(2)})
		}
		table.Footer("Total", "$"+summary.RealizedPnL.StringFixed(2))
		if err := table.Render(); err != nil {
			return err
		}

		fmt.Fprintf(out, "Trades: %d (open %d, closed %d)\n", summary.Trades, summary.Open, summary.Closed)
		fmt.Fprintf(out, "Wins: %d  Losses: %d  Win rate: %s%%\n", summary.Wins, summary.Losses, summary.WinRate().StringFixed(2))
		if summary.Skipped > 0 {
			fmt.Fprintf(out, "Skipped %d closed trades with non-finite numbers\n", summary.Skipped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pnlCmd)

	pnlCmd.Flags().StringVar(&partition, "partition", "", "Partition key value to summarize")
	pnlCmd.MarkFlagRequired("partition")
}
