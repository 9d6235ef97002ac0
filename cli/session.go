package cli

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"eisenhower-matrix/config"
	"eisenhower-matrix/matrix"
	"eisenhower-matrix/storage"
)

// session bundles what every command needs once configuration is resolved.
type session struct {
	cfg     config.Config
	logger  *log.Logger
	backend storage.Backend
}

func newSession(cmd *cobra.Command, v *viper.Viper) (*session, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	backend, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &session{cfg: cfg, logger: logger, backend: backend}, nil
}

func (r *session) initBackend(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ShutdownTimeout)
	defer cancel()
	if err := r.backend.Init(ctx); err != nil {
		return fmt.Errorf("init %s storage: %w", r.cfg.Storage.Backend, err)
	}
	return nil
}

func (r *session) adapter() *storage.Adapter {
	return storage.NewAdapter(r.backend, r.cfg.MatrixKey)
}

func (r *session) settings() *storage.SettingsAdapter {
	return storage.NewSettingsAdapter(r.backend, r.cfg.SettingsKey)
}

// openStore prepares the backend and hydrates a Store from it.
func (r *session) openStore(ctx context.Context) (*matrix.Store, error) {
	if err := r.initBackend(ctx); err != nil {
		return nil, err
	}
	return matrix.New(ctx, r.adapter(), r.logger, matrix.WithWriteTimeout(r.cfg.WriteTimeout)), nil
}

// close flushes store (when non-nil) and releases the backend.
func (r *session) close(store *matrix.Store) error {
	var flushErr error
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
		flushErr = store.Close(ctx)
		cancel()
		if flushErr != nil {
			r.logger.WithError(flushErr).Error("flush pending matrix write failed")
		}
	}
	if err := r.backend.Close(); err != nil {
		r.logger.WithError(err).Warn("close storage backend failed")
	}
	return flushErr
}
