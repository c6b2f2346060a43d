package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/openkcm/common-sdk/pkg/utils"
	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"github.com/mshando/marketplace-client/cmd/mshando/admin"
	"github.com/mshando/marketplace-client/cmd/mshando/auth"
	"github.com/mshando/marketplace-client/cmd/mshando/bids"
	"github.com/mshando/marketplace-client/cmd/mshando/categories"
	"github.com/mshando/marketplace-client/cmd/mshando/notifications"
	"github.com/mshando/marketplace-client/cmd/mshando/payments"
	"github.com/mshando/marketplace-client/cmd/mshando/tasks"
	tokenrefresh "github.com/mshando/marketplace-client/cmd/mshando/token-refresher"
	"github.com/mshando/marketplace-client/internal/cmdutils"
)

var (
	// BuildInfo will be set by the build system
	BuildInfo = "{}"

	isServiceCmd     bool
	gracefulShutdown time.Duration
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Mshando client version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		value, err := utils.ExtractFromComplexValue(BuildInfo)
		if err != nil {
			return err
		}

		slog.InfoContext(cmd.Context(), value)

		return nil
	},
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mshando",
		Short: "Mshando marketplace client",
		Long:  "Command line client for the Mshando task marketplace.",

		SilenceUsage: true,
	}

	cmd.PersistentFlags().DurationVar(&gracefulShutdown, "graceful-shutdown", 1*time.Second, "graceful shutdown")
	cmd.PersistentFlags().StringP(cmdutils.OutputFlag, "o", string(cmdutils.OutputJSON), "output format, json or yaml")

	refresher := tokenrefresh.Cmd(BuildInfo)
	refresher.PreRun = func(*cobra.Command, []string) { isServiceCmd = true }

	cmd.AddCommand(
		versionCmd,
		refresher,
		tasks.Cmd(BuildInfo),
		categories.Cmd(BuildInfo),
		bids.Cmd(BuildInfo),
		payments.Cmd(BuildInfo),
		notifications.Cmd(BuildInfo),
		admin.Cmd(BuildInfo),
	)
	cmd.AddCommand(auth.Cmds(BuildInfo)...)

	return cmd
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancelOnSignal()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slogctx.Error(ctx, "failed to run the command", "error", err)
		_, _ = fmt.Fprintln(os.Stderr, err)

		return err
	}

	if isServiceCmd {
		_, _ = fmt.Fprintf(os.Stderr, "Graceful shutdown in %s\n", gracefulShutdown)
		time.Sleep(gracefulShutdown)
	}

	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
