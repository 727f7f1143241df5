package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sarlink/internal/logger"
	"sarlink/internal/telemetry"
	"sarlink/internal/www"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulator with the HTTP API, SSE and websocket streams",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Web.Addr = serveAddr
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		g, gctx := errgroup.WithContext(ctx)

		if mc := cfg.Telemetry.MQTT; mc.Enabled {
			pub, err := telemetry.DialMQTT(mc)
			if err != nil {
				return err
			}
			pub.Attach(a.bus)
			defer pub.Close()
		}
		if rc := cfg.Telemetry.Redis; rc.Enabled {
			mirror, err := telemetry.DialRedis(ctx, rc)
			if err != nil {
				return err
			}
			mirror.Attach(a.bus)
			defer mirror.Close()
			g.Go(func() error { return mirror.Run(gctx) })
		}

		handler, stopHubs := www.NewRouter(a.coord, www.Status{
			Backend:   a.llm.Backend(),
			Model:     a.llm.Model(),
			Available: a.llm.Available(),
		})
		defer stopHubs()
		srv := &http.Server{
			Addr:              cfg.Web.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error { return a.coord.Run(gctx) })
		g.Go(func() error {
			logger.Log.Printf("HTTP listening on %s", srv.Addr)
			fmt.Fprintf(cmd.OutOrStdout(), "SAR-LINK listening on %s\n", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Log.Println("Shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides web.addr)")
}
