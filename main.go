package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/logging"
)

var (
	v       = viper.New()
	env     *config.Config
	logger  *logrus.Logger
	rootCmd = &cobra.Command{
		Use:               "ledger-server",
		Short:             "Ledger and savings goal service with threshold alerts",
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("data-backend", "", "storage backend (postgres, memory)")
	_ = v.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("DATA_BACKEND", rootCmd.PersistentFlags().Lookup("data-backend"))

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(jobCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	var err error
	env, err = config.Load(v)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger = logging.SetupLogging(env.LogLevel)
	logger.WithField("dataBackend", env.DataBackend).Info("ledger-server starting")
	return nil
}
