package main

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rsclarke/clicktrace/internal/delivery"
	"github.com/rsclarke/clicktrace/internal/dom"
	"github.com/rsclarke/clicktrace/internal/events"
	"github.com/rsclarke/clicktrace/internal/interceptor"
	"github.com/rsclarke/clicktrace/internal/logging"
)

var replayFlags struct {
	page   string
	script string
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Dispatch scripted interactions on a page and ship their descriptors",
	Long: `Parse an HTML page, attach the click and keyup interceptor, dispatch
every interaction from a JSON-lines script and send one descriptor per
interaction to the collector. Failed deliveries are logged and dropped.`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&replayFlags.page, "page", "", "HTML page to instrument")
	replayCmd.Flags().StringVar(&replayFlags.script, "script", "", "JSON-lines interaction script")
	_ = replayCmd.MarkFlagRequired("page")
	_ = replayCmd.MarkFlagRequired("script")
}

func runReplay(cmd *cobra.Command, args []string) error {
	doc, err := loadPage(replayFlags.page)
	if err != nil {
		return err
	}

	f, err := os.Open(replayFlags.script)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	steps, err := readScript(f)
	if err != nil {
		return err
	}

	client := delivery.NewClient(cfg.CollectorURL(), logger.Named("delivery"))
	tally := &tallyDeliverer{next: client}
	ic := interceptor.New(tally, logger.Named("interceptor"))
	if err := ic.Start(doc); err != nil {
		return err
	}
	defer ic.Stop()

	logger.Info("replaying script",
		logging.Host(cfg.Collector.Host),
		logging.Port(cfg.Collector.Port),
		logging.URL(client.Endpoint()),
		zap.Int("steps", len(steps)))

	for _, s := range steps {
		ev, err := s.event(doc)
		if err != nil {
			return err
		}
		doc.Dispatch(ev)
	}

	client.Wait()
	tally.wait()

	fmt.Fprintf(cmd.OutOrStdout(), "dispatched: %d\ndelivered:  %d\nfailed:     %d\n",
		len(steps), tally.delivered.Load(), tally.failed.Load())
	return nil
}

func loadPage(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	return dom.Parse(f)
}

// tallyDeliverer counts delivery outcomes without delaying the caller.
type tallyDeliverer struct {
	next      interceptor.Deliverer
	wg        sync.WaitGroup
	delivered atomic.Int64
	failed    atomic.Int64
}

func (t *tallyDeliverer) Deliver(d events.Descriptor) <-chan delivery.Result {
	results := t.next.Deliver(d)
	observed := make(chan delivery.Result, 1)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer close(observed)
		r, ok := <-results
		if !ok || r.Err != nil {
			t.failed.Add(1)
		} else {
			t.delivered.Add(1)
		}
		observed <- r
	}()
	return observed
}

func (t *tallyDeliverer) wait() {
	t.wg.Wait()
}
