package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bitcoinaugur/augurd/pkg/utils"
)

var logger *zap.Logger

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "augurd",
	Short: "augurd",
	Long:  `Bitcoin mempool fee-estimation daemon.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It only needs to happen once in main.main().
func Execute() {
	utils.FatalOnError(RootCmd.Execute())
}

func init() {
	logger, _ = zap.NewDevelopment(zap.AddStacktrace(zapcore.FatalLevel))
}
