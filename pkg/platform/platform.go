package platform

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq" // registers the postgres database/sql driver

	"github.com/atunesdelpacifico/storefront/internal/server"
	"github.com/atunesdelpacifico/storefront/pkg/backend"
	"github.com/atunesdelpacifico/storefront/pkg/cart"
	"github.com/atunesdelpacifico/storefront/pkg/health"
	"github.com/atunesdelpacifico/storefront/pkg/localstore"
	"github.com/atunesdelpacifico/storefront/pkg/localstore/migrate"
	"github.com/atunesdelpacifico/storefront/pkg/localstore/postgres"
	"github.com/atunesdelpacifico/storefront/pkg/localstore/sqlite"
	"github.com/atunesdelpacifico/storefront/pkg/session"
)

// Platform is the assembled storefront: store, backend client, session
// gate, cart engine, and the JSON facade.
type Platform struct {
	cfg     *Config
	log     *slog.Logger
	version string
	store   localstore.Store
	client  *backend.Client
	gate    *session.Gate
	engine  *cart.Engine
	checker *health.Checker
	srv     *http.Server
}

// New assembles a platform from configuration. On startup it restores any
// stored session and the matching cart, so a restart lands the user where
// they left off.
func New(cfg *Config, opts ...Option) (*Platform, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Platform{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}

	if p.store == nil {
		store, err := openStore(cfg.Store)
		if err != nil {
			return nil, err
		}
		p.store = store
	}

	client, err := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, p.log)
	if err != nil {
		return nil, err
	}
	p.client = client

	pricer, err := cfg.Pricing.Pricer()
	if err != nil {
		return nil, err
	}

	p.gate = session.NewGate(p.store, client, p.log)
	p.engine = cart.NewEngine(p.store, pricer, p.log)

	facade := server.New(p.gate, p.engine, client, p.log)
	p.checker = health.NewChecker(p.version)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", p.checker.LivenessHandler())
	mux.HandleFunc("GET /readyz", p.checker.ReadinessHandler())
	mux.Handle("/", facade.Handler())

	p.srv = &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}

	return p, nil
}

// openStore constructs the configured persistence store.
func openStore(cfg StoreConfig) (localstore.Store, error) {
	switch cfg.Driver {
	case "memory":
		return localstore.NewMemory(), nil
	case "sqlite":
		return sqlite.Open(cfg.Path)
	case "postgres":
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		if err := migrate.Run(db, migrate.DialectPostgres); err != nil {
			_ = db.Close()
			return nil, err
		}
		return postgres.New(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Run restores the stored session, serves the facade, and shuts down
// cleanly when ctx is cancelled.
func (p *Platform) Run(ctx context.Context) error {
	if sess := p.gate.Restore(ctx); sess != nil {
		p.client.SetToken(sess.Token)
		if err := p.engine.Bind(ctx, sess.Identity); err != nil {
			p.log.Warn("cart restore failed", "identity", sess.Identity, "error", err)
		}
		p.log.Info("session restored", "identity", sess.Identity, "role", sess.Role)
	}
	p.checker.SetReady()

	errCh := make(chan error, 1)
	go func() {
		p.log.Info("storefront listening", "address", p.srv.Addr)
		if err := p.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	p.checker.SetDraining()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), p.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := p.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := p.store.Close(); err != nil {
		p.log.Warn("closing store failed", "error", err)
	}
	return <-errCh
}
