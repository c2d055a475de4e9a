package system

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chaisa2/student-productivity-help-app/internal/cli"
	"github.com/chaisa2/student-productivity-help-app/internal/logger"
	"github.com/chaisa2/student-productivity-help-app/internal/relay"
)

const shutdownTimeout = 5 * time.Second

type ServeCmd struct {
	Addr string `help:"Listen address (default from config relay.addr)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.serve(sigCtx, ctx)
}

// serve runs the relay until runCtx is cancelled.
func (c *ServeCmd) serve(runCtx context.Context, ctx *cli.Context) error {
	cfg := ctx.Config.Relay
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	metrics := relay.NewMetrics()
	svc := relay.NewService(cfg, relay.WithMetrics(metrics))
	if p, ok := svc.Select(); ok {
		logger.Info("Relay provider selected", "provider", p.Name())
	} else {
		logger.Warn("No AI provider credentials found; chat requests will get setup instructions")
	}
	srv := relay.NewServer(cfg, svc, metrics)

	if ctx.ConfigDir != "" {
		if err := relay.WriteLockfile(ctx.ConfigDir, ln.Addr()); err != nil {
			ln.Close()
			return err
		}
		defer func() {
			if err := relay.RemoveLockfile(ctx.ConfigDir); err != nil {
				logger.Warn("Failed to remove relay lockfile", "error", err)
			}
		}()
	}

	ctx.Printf("✓ Chat relay listening on http://%s\n", ln.Addr())
	logger.Info("Relay started", "addr", ln.Addr().String())

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return srv.Serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Relay shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("relay stopped: %w", err)
	}
	ctx.Println("Relay stopped.")
	return nil
}
