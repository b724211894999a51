package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/whhaicheng/news-scraper/internal/domain/scrape"
)

type runOptions struct {
	For      time.Duration
	Interval time.Duration
	JSON     bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a headless scraping session",
		Long: `Start a scraping run and print the activity log as it grows.

The run is stopped after --for elapses, or on interrupt when --for is zero.
The stopped session is recorded in the history database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().DurationVar(&opts.For, "for", 0, "Stop the run after this long (0 runs until interrupted)")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "Tick interval override")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print every snapshot as a JSON line")

	return cmd
}

func runHeadless(ctx context.Context, out io.Writer, opts *runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bo := bootstrapOptions()
	bo.Interval = opts.Interval
	rt, err := Bootstrap(ctx, bo)
	if err != nil {
		return err
	}

	printer := &snapshotPrinter{out: out, json: opts.JSON}
	printer.seen = rt.Controller.Snapshot().LogTotal
	rt.Relay.Attach(printer.Print)

	rt.Controller.Start()

	var deadline <-chan time.Time
	if opts.For > 0 {
		timer := time.NewTimer(opts.For)
		defer timer.Stop()
		deadline = timer.C
	}
	select {
	case <-ctx.Done():
	case <-deadline:
	}

	rt.Controller.Stop()
	final := rt.Controller.Snapshot()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := rt.Close(closeCtx); err != nil {
		return err
	}

	if !opts.JSON {
		fmt.Fprintf(out, "Run %s finished with %d units\n", shortRunID(final.RunID), final.WorkCount)
	}
	return nil
}

// snapshotPrinter writes the log entries appended since the previous snapshot.
type snapshotPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	json bool
	seen int
}

func (p *snapshotPrinter) Print(s scrape.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		data, err := json.Marshal(s)
		if err == nil {
			fmt.Fprintln(p.out, string(data))
		}
		return
	}

	fresh := s.LogTotal - p.seen
	if fresh > len(s.Log) {
		fresh = len(s.Log)
	}
	for _, e := range s.Log[len(s.Log)-max(fresh, 0):] {
		fmt.Fprintf(p.out, "%-8s %s\n", s.Phase.Label(), e.String())
	}
	p.seen = s.LogTotal
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
