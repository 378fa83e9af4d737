package main

import (
	"context"
	"fmt"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/auth"
	"takeoffadmin/internal/config"
	"takeoffadmin/internal/logging"
	"takeoffadmin/internal/router"
	"takeoffadmin/internal/session"
	"takeoffadmin/internal/storage"
	"takeoffadmin/internal/store"

	"go.uber.org/zap"
)

// adminClient holds every layer of the client for one command run.
type adminClient struct {
	cfg      *config.Config
	cfgPath  string
	storage  storage.Storage
	repo     *session.Repository
	api      *api.Client
	store    *store.Store
	router   *router.Router
	gate     *auth.Gate
	restored bool
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

// openClient loads config, opens storage and restores any saved session.
func openClient() (*adminClient, error) {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := logging.Initialize(cfg.DataDir(), cfg.Logging.ToLogging()); err != nil {
		logger.Warn("file logging disabled", zap.Error(err))
	}

	st, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	client, err := api.New(api.Options{BaseURL: cfg.API.BaseURL, Timeout: cfg.GetAPITimeout()})
	if err != nil {
		st.Close()
		return nil, err
	}

	repo := session.NewRepository(st)
	s := store.New(client, repo)
	r := router.New(s.Auth)
	gate := auth.NewGate(s, repo, r, client)
	gate.DefaultLanguage = cfg.UI.Language

	c := &adminClient{
		cfg:     cfg,
		cfgPath: path,
		storage: st,
		repo:    repo,
		api:     client,
		store:   s,
		router:  r,
		gate:    gate,
	}
	c.restored = gate.Restore()
	if c.restored {
		r.Navigate(router.Dashboard)
	}
	logging.Boot("client ready: api=%s storage=%s session=%v", cfg.API.BaseURL, cfg.Storage.Driver, c.restored)
	logger.Debug("client ready",
		zap.String("config", path),
		zap.String("api", cfg.API.BaseURL),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("session", c.restored))
	return c, nil
}

// requireSession fails unless a saved session was restored.
func (c *adminClient) requireSession() error {
	if !c.store.Auth.IsLogged() {
		return fmt.Errorf("not signed in: run 'takeoff login' first")
	}
	return nil
}

// context returns a context bounded by --timeout or the configured API timeout.
func (c *adminClient) context() (context.Context, context.CancelFunc) {
	d := timeout
	if d <= 0 {
		d = c.cfg.GetAPITimeout()
	}
	return context.WithTimeout(context.Background(), d)
}

func (c *adminClient) Close() {
	if err := c.storage.Close(); err != nil {
		logger.Warn("close storage", zap.Error(err))
	}
	logging.CloseAll()
}
