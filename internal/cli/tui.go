package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/whhaicheng/news-scraper/internal/app/clock"
	"github.com/whhaicheng/news-scraper/internal/app/usecase"
	"github.com/whhaicheng/news-scraper/internal/transport/tui"
)

func newTUICmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal dashboard",
		Long: `Open the terminal dashboard.

Keys: s/enter/space start or resume, p pause, x stop, q quit.
Logs go to the log file only while the dashboard is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bo := bootstrapOptions()
			bo.Console = io.Discard
			bo.Interval = interval
			return runTUI(cmd.Context(), bo)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Tick interval override")

	return cmd
}

func runTUI(ctx context.Context, bo BootstrapOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := Bootstrap(ctx, bo)
	if err != nil {
		return err
	}

	queue := usecase.NewSnapshotQueue()
	initial := rt.Controller.Snapshot()
	rt.Relay.Attach(queue.Push)

	runErr := tui.Run(ctx, tui.ModelConfig{
		Title:         rt.Config.UI.Title,
		LogLines:      rt.Config.UI.LogLines,
		ToastDuration: rt.Config.UI.ToastDuration,
		Clock:         clock.System,
		Controller:    rt.Controller,
		Queue:         queue,
		Initial:       initial,
	})

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	closeErr := rt.Shutdown(closeCtx)
	queue.Close()

	if runErr != nil {
		return runErr
	}
	return closeErr
}
