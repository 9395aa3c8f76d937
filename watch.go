package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/tournevent/bolplaza/internal/server"
	"github.com/tournevent/bolplaza/pkg/bolplaza"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll open orders and serve health, metrics and status",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		w := &watcher{app: a}
		srv := server.New(server.Config{Port: a.cfg.MetricsPort}, w, a.registry, a.logger)

		a.logger.Info("Starting order watch",
			zap.Duration("interval", a.cfg.WatchInterval),
			zap.Int("port", a.cfg.MetricsPort),
			zap.String("version", a.cfg.Version),
		)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error { return srv.Run(ctx) })
		g.Go(func() error { return w.Run(ctx, a.cfg.WatchInterval) })
		return g.Wait()
	}),
}

// watcher polls orders and returns and keeps the outcome of the last poll.
type watcher struct {
	app *app

	mu     sync.RWMutex
	status server.Status
}

func (w *watcher) Status() server.Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

func (w *watcher) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		w.poll(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *watcher) poll(ctx context.Context) {
	status := server.Status{LastPoll: time.Now()}

	orders, err := w.app.client.GetOrders(ctx)
	if err == nil {
		var returns []*bolplaza.Return
		returns, err = w.app.client.GetReturns(ctx)
		status.Returns = len(returns)
	}
	status.OpenOrders = len(orders)

	if err != nil {
		status.LastError = err.Error()
		w.app.metrics.RecordError(errorType(err))
		w.app.logger.Ctx(ctx).Warn("Poll failed", zap.Error(err))
	} else {
		w.app.metrics.RecordPoll(len(orders))
	}

	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
}

func errorType(err error) string {
	switch {
	case errors.Is(err, bolplaza.ErrTransport):
		return "transport"
	case errors.Is(err, bolplaza.ErrAPI):
		return "api"
	default:
		return "other"
	}
}
