package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gigdesk/gigdesk/internal/cli"
	"github.com/gigdesk/gigdesk/internal/client"
	"github.com/gigdesk/gigdesk/internal/config"
	"github.com/gigdesk/gigdesk/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	command := NewGigdeskCommand()
	err := command.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", client.Message(err))
		os.Exit(1)
	}
}

func NewGigdeskCommand() *cobra.Command {
	logLevel := "warn"
	if cfg, err := config.New(); err == nil {
		logLevel = cfg.Service.LogLevel
	}

	var undo func()
	cmd := &cobra.Command{
		Use:           "gigdesk [flags] [options]",
		Short:         "gigdesk submits, reviews and discusses work on the gig marketplace.",
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := log.InitLog(log.ParseLevel(logLevel))
			undo = zap.ReplaceGlobals(logger)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
			if undo != nil {
				undo()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")

	cmd.AddCommand(cli.NewCmdSubmit())
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdDelete())
	cmd.AddCommand(cli.NewCmdReview())
	cmd.AddCommand(cli.NewCmdPreview())
	cmd.AddCommand(cli.NewCmdChat())
	cmd.AddCommand(cli.NewCmdVerify())
	cmd.AddCommand(cli.NewCmdConfig())
	cmd.AddCommand(cli.NewCmdLogin())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
