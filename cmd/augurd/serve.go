package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitcoinaugur/augurd/pkg/augur"
	"github.com/bitcoinaugur/augurd/pkg/bitcoinrpc"
	"github.com/bitcoinaugur/augurd/pkg/collector"
	"github.com/bitcoinaugur/augurd/pkg/httpapi"
	"github.com/bitcoinaugur/augurd/pkg/persistence"
	"github.com/bitcoinaugur/augurd/pkg/utils"
)

var serveOptions struct {
	btcRPCURL      string
	btcRPCUser     string
	btcRPCPassword string
	snapshotDir    string
	listenAddr     string
	collectEvery   time.Duration
	retention      time.Duration
}

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Runs the collector and HTTP API",
	Long:  `Runs the periodic mempool collector and serves fee estimates over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := bitcoinrpc.New(serveOptions.btcRPCURL, serveOptions.btcRPCUser, serveOptions.btcRPCPassword, logger)
		if err != nil {
			return err
		}
		defer client.Close()

		store, err := persistence.New(serveOptions.snapshotDir, logger)
		if err != nil {
			return err
		}

		coll := collector.New(client, store, augur.NewDefaultEngine(), logger)

		stop := make(chan struct{})
		go func() {
			defer utils.FatalOnPanic()
			if err := coll.Run(serveOptions.collectEvery, stop); err != nil {
				logger.Error("collector stopped", zap.Error(err))
			}
		}()

		go runRetention(store, serveOptions.retention)

		server := httpapi.New(coll, logger)
		logger.Info("listening", zap.String("addr", serveOptions.listenAddr))
		return runHTTPServer(serveOptions.listenAddr, server)
	},
}

func runRetention(store *persistence.Store, retention time.Duration) {
	defer utils.FatalOnPanic()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		if err := store.Cleanup(retention); err != nil {
			logger.Warn("snapshot retention cleanup failed", zap.Error(err))
		}
	}
}

func init() {
	serveCommand.Flags().StringVarP(&serveOptions.btcRPCURL, "url", "", "127.0.0.1:8332", "bitcoin rpc url")
	serveCommand.Flags().StringVarP(&serveOptions.btcRPCUser, "user", "u", "bitcoinrpc", "bitcoin rpc username")
	serveCommand.Flags().StringVarP(&serveOptions.btcRPCPassword, "password", "p", "", "bitcoin rpc password")
	serveCommand.Flags().StringVarP(&serveOptions.snapshotDir, "snapshot-dir", "d", "./snapshots", "snapshot storage directory")
	serveCommand.Flags().StringVarP(&serveOptions.listenAddr, "listen", "l", ":8080", "HTTP listen address")
	serveCommand.Flags().DurationVarP(&serveOptions.collectEvery, "interval", "i", time.Minute, "mempool collection interval")
	serveCommand.Flags().DurationVarP(&serveOptions.retention, "retention", "r", 30*24*time.Hour, "snapshot retention period")

	RootCmd.AddCommand(serveCommand)
}
