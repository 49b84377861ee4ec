// Command explorerd bootstraps the explorer indexing core against a block
// stream and serves its query surface over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/synnergy-chain/explorer/explorer"
	"github.com/synnergy-chain/explorer/pkg/config"
)

func main() {
	_ = godotenv.Load(".env")
	viper.AutomaticEnv()

	root := &cobra.Command{Use: "explorerd"}
	root.PersistentFlags().String("blocks", "", "path to a newline-delimited JSON block stream (genesis first)")
	root.PersistentFlags().String("env", "", "config environment override name")
	_ = root.MarkPersistentFlagRequired("blocks")

	root.AddCommand(serveCmd())
	root.AddCommand(bootstrapCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) *log.Logger {
	logger := log.New()
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func loadConfigAndStorage(cmd *cobra.Command) (*config.Config, *fileBlockStorage, *log.Logger, error) {
	env, _ := cmd.Flags().GetString("env")
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg.Logging.Level)

	blocksPath, _ := cmd.Flags().GetString("blocks")
	storage, err := loadFileBlockStorage(blocksPath, cfg.Explorer.HeadTag)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, storage, logger, nil
}

func bootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "index a block stream from genesis to HEAD and report the resulting tip",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, storage, logger, err := loadConfigAndStorage(cmd)
			if err != nil {
				return err
			}

			indexer, _, err := explorer.Bootstrap(context.Background(), storage.genesis(), storage, cfg.Explorer.HeadTag, logger)
			if err != nil {
				return err
			}
			tip := indexer.Tip()
			fmt.Printf("tip: block=%s chain_length=%d\n", tip.Id.String(), uint32(tip.ChainLength))
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "bootstrap the explorer and serve its query surface over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, storage, logger, err := loadConfigAndStorage(cmd)
			if err != nil {
				return err
			}

			indexer, multiverse, err := explorer.Bootstrap(context.Background(), storage.genesis(), storage, cfg.Explorer.HeadTag, logger)
			if err != nil {
				return err
			}

			ctx := &explorer.Context{
				Queries:  explorer.NewQueryEngine(indexer, multiverse),
				Settings: explorer.Settings{AddressBech32Prefix: cfg.Explorer.AddressBech32Prefix},
			}

			srv := NewServer(cfg.HTTP.BindAddr, ctx, logger)
			logger.WithField("addr", cfg.HTTP.BindAddr).Info("explorerd: listening")
			return srv.Start()
		},
	}
}
