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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"eisenhower-matrix/api"
	"eisenhower-matrix/matrix"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, v)
		},
	}
	fs := cmd.Flags()
	fs.String("listen-addr", ":8080", "HTTP listen address")
	fs.StringSlice("allow-origins", []string{"*"}, "CORS allowed origins")
	fs.Duration("write-timeout", 5*time.Second, "timeout for a single snapshot write")
	fs.Duration("shutdown-timeout", 10*time.Second, "grace period for in-flight requests and the final write")
	bindFlag(v, "listen_addr", fs, "listen-addr")
	bindFlag(v, "allow_origins", fs, "allow-origins")
	bindFlag(v, "write_timeout", fs, "write-timeout")
	bindFlag(v, "shutdown_timeout", fs, "shutdown-timeout")
	return cmd
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	rt, err := newSession(cmd, v)
	if err != nil {
		return err
	}
	store, err := rt.openStore(cmd.Context())
	if err != nil {
		_ = rt.backend.Close()
		return err
	}

	e := api.NewServer(api.ServerConfig{AllowOrigins: rt.cfg.AllowOrigins}, rt.logger)
	api.Register(e, store, matrix.NewResolver(store), rt.settings(), rt.logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(rt.cfg.ListenAddr)
	}()
	rt.logger.WithFields(log.Fields{
		"addr":    rt.cfg.ListenAddr,
		"backend": rt.cfg.Storage.Backend,
	}).Info("matrix api listening")

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		rt.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		rt.logger.WithError(err).Warn("http shutdown incomplete")
	}
	if err := rt.close(store); err != nil && serveErr == nil {
		serveErr = err
	}
	if serveErr == nil {
		rt.logger.Info("stopped cleanly")
	}
	return serveErr
}
