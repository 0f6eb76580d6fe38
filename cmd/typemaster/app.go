package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typemaster/internal/ai"
	"github.com/verte-zerg/typemaster/internal/cloud"
	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/history"
	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/store"
)

const (
	backendSimulated = "simulated"
	backendPostgres  = "postgres"
)

// app holds the long-lived collaborators shared by the commands.
type app struct {
	logger  *zap.SugaredLogger
	store   *store.Store
	client  ai.Client
	writer  *ai.LessonWriter
	history *history.Service
	closers []func()
}

func openApp(ctx context.Context, cmd *cobra.Command, fileCfg config.FileConfig) (*app, error) {
	logger, closeLog, err := logging.New(config.DefaultLogPath(), debugLogging)
	if err != nil {
		return nil, err
	}
	a := &app{logger: logger, closers: []func(){closeLog}}

	secrets, err := config.LoadSecrets(config.DefaultEnvPath())
	if err != nil {
		a.Close()
		return nil, err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	a.store = st
	a.closers = append(a.closers, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	})

	if err := a.openAI(fileCfg.AI, secrets); err != nil {
		a.Close()
		return nil, err
	}

	a.history = history.NewService(st, logger)
	user := cloudUser
	applyStringConfig(cmd, "user", &user, fileCfg.Cloud.User)
	if user == "" {
		user = secrets.CloudUser
	}
	if strings.TrimSpace(user) != "" {
		remote, err := a.openRemote(ctx, fileCfg.Cloud, secrets)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.history.Connect(remote, user)
	}
	return a, nil
}

func (a *app) openAI(cfg config.AIConfig, secrets config.Secrets) error {
	if secrets.OpenAIKey == "" {
		a.logger.Infow("OPENAI_API_KEY not set; generated lessons disabled")
		return nil
	}
	opts := ai.Options{APIKey: secrets.OpenAIKey, BaseURL: secrets.OpenAIBaseURL, Model: secrets.Model}
	if opts.Model == "" && cfg.Model != nil {
		opts.Model = *cfg.Model
	}
	if opts.BaseURL == "" && cfg.BaseURL != nil {
		opts.BaseURL = *cfg.BaseURL
	}
	if cfg.Timeout != nil {
		timeout, err := time.ParseDuration(*cfg.Timeout)
		if err != nil {
			return fmt.Errorf("invalid ai.timeout %q: %w", *cfg.Timeout, err)
		}
		opts.Timeout = timeout
	}
	client, err := ai.NewOpenAIClient(opts)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	a.client = client
	a.writer = ai.NewLessonWriter(client, a.logger)
	return nil
}

func (a *app) openRemote(ctx context.Context, cfg config.CloudConfig, secrets config.Secrets) (cloud.Remote, error) {
	backend := backendSimulated
	if cfg.Backend != nil {
		backend = strings.ToLower(strings.TrimSpace(*cfg.Backend))
	}
	switch backend {
	case backendSimulated:
		delays := cloud.DefaultDelays()
		if cfg.Delay != nil && !*cfg.Delay {
			delays = cloud.Delays{}
		}
		return cloud.NewSimulated(a.store, delays, a.logger), nil
	case backendPostgres:
		dsn := secrets.CloudDSN
		if dsn == "" && cfg.DSN != nil {
			dsn = *cfg.DSN
		}
		if dsn == "" {
			return nil, fmt.Errorf("cloud backend postgres needs a dsn (cloud.dsn or TYPEMASTER_CLOUD_DSN)")
		}
		pg, err := cloud.NewPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown cloud backend %q (use %s or %s)", backend, backendSimulated, backendPostgres)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
