package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/whhaicheng/news-scraper/internal/transport/ui"
)

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunGUI(cmd.Context(), bootstrapOptions())
		},
	}
}

// RunGUI assembles the runtime and blocks in the desktop event loop.
func RunGUI(ctx context.Context, bo BootstrapOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := Bootstrap(ctx, bo)
	if err != nil {
		return err
	}
	rt.Logger.Info("Starting news scraper window", "version", Version)

	ui.NewApplication(rt.Config.UI, rt.Controller, rt.Relay, rt.History, rt.Export).Run()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return rt.Shutdown(closeCtx)
}
