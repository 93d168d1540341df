package tradelog

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vignesh-goutham/tradelog/pkg/storage"
	"github.com/vignesh-goutham/tradelog/pkg/types"
)

var partition string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the trades stored under a partition key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		trades, err := loadTrades(cmd)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header(cfg.SortKey, "Trade ID", "Symbol", "Direction", "Qty", "Entry", "Exit", "Status", "Opened")
		for _, trade := range trades {
			table.Append([]string{
				trade.SortKey,
				trade.TradeID,
				trade.Symbol,
				string(trade.Direction),
				formatFloat(trade.Qty),
				formatFloat(trade.EntryPrice),
				formatFloat(trade.ExitPrice),
				string(trade.Status),
				trade.OpenedAt,
			})
		}
		if err := table.Render(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d trades\n", len(trades))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&partition, "partition", "", "Partition key value to list")
	listCmd.MarkFlagRequired("partition")
}

func loadTrades(cmd *cobra.Command) ([]types.TradeRecord, error) {
	tradeStore, err := storage.Open(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	defer tradeStore.Close()

	trades, err := tradeStore.ListTrades(cmd.Context(), partition)
	if err != nil {
		return nil, fmt.Errorf("error listing trades: %w", err)
	}
	return trades, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
