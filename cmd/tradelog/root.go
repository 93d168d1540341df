package tradelog

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vignesh-goutham/tradelog/pkg/config"
	"github.com/vignesh-goutham/tradelog/pkg/logger"
)

var (
	configPath string

	cfg *config.Config
	lg  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tradelog",
	Short: "Tradelog records trades exactly once",
	Long: `Tradelog validates trade records and writes them to a key-value store with
insert-only semantics. A trade that already exists is never overwritten.

Configuration is read from an optional TOML file, a .env file and the environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		lg = logger.Setup(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file (defaults to $TRADELOG_CONFIG)")
}

// readInput returns the contents of the file named by args, or stdin when no file
// or "-" is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", args[0], err)
	}
	return data, nil
}
