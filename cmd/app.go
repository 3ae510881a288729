package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/logos/internal/aiscore"
	"github.com/abhisek/logos/internal/config"
	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/lessons"
	"github.com/abhisek/logos/internal/llm"
	"github.com/abhisek/logos/internal/logging"
	"github.com/abhisek/logos/internal/selector"
	"github.com/abhisek/logos/internal/session"
	"github.com/abhisek/logos/internal/store"
)

var errNoProvider = errors.New("no LLM provider configured: set [llm] provider or an API key")

// app bundles what a command needs: configuration, logger and store.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DatabaseURL = v
	}
	if v, _ := cmd.Flags().GetString("curriculum"); v != "" {
		cfg.CurriculumPath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// newApp loads configuration, builds the logger and opens the store.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	url := cfg.DatabaseURL
	if url == "" {
		if url, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	st, err := store.Open(cmd.Context(), url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &app{cfg: cfg, logger: logger, store: st}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) catalog(lang curriculum.Language) (*curriculum.Catalog, error) {
	cat, err := curriculum.LoadDir(a.cfg.CurriculumPath, lang)
	if err != nil {
		return nil, fmt.Errorf("load %s curriculum: %w", lang, err)
	}
	return cat, nil
}

// catalogs loads every language that has a curriculum directory.
func (a *app) catalogs() (map[curriculum.Language]*curriculum.Catalog, error) {
	out := make(map[curriculum.Language]*curriculum.Catalog)
	for _, lang := range curriculum.Languages() {
		cat, err := a.catalog(lang)
		if err != nil {
			return nil, err
		}
		out[lang] = cat
	}
	return out, nil
}

// snapshot loads a learner, or starts a fresh one when none is stored.
func (a *app) snapshot(ctx context.Context, id string, cat *curriculum.Catalog) (*learner.Snapshot, error) {
	snap, err := a.store.LearnerRepo().LoadSnapshot(ctx, id, cat)
	if errors.Is(err, store.ErrNotFound) {
		a.logger.Info("new learner", slog.String("learner_id", id), slog.String("language", string(cat.Language)))
		return learner.New(id, cat), nil
	}
	return snap, err
}

func (a *app) planner(seed uint64) session.Planner {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return session.NewPlanner(selector.New(a.cfg.Selector, rng), a.cfg.Session)
}

// provider builds the configured LLM provider. It fails when only the
// mock provider is available.
func (a *app) provider(ctx context.Context) (llm.Provider, error) {
	cfg := a.cfg.LLMSettings()
	if cfg.Provider == llm.ProviderMock {
		return nil, errNoProvider
	}
	return llm.NewProvider(ctx, cfg, a.store.EventRepo(), a.logger)
}

func (a *app) scorer(ctx context.Context) (*aiscore.Scorer, error) {
	p, err := a.provider(ctx)
	if err != nil {
		return nil, err
	}
	return aiscore.New(p, aiscore.DefaultConfig()), nil
}

func (a *app) lessons(ctx context.Context) (*lessons.Service, error) {
	p, err := a.provider(ctx)
	if err != nil {
		return nil, err
	}
	return lessons.NewService(p, lessons.DefaultConfig()), nil
}

func languageFlag(cmd *cobra.Command) (curriculum.Language, error) {
	v, _ := cmd.Flags().GetString("language")
	return curriculum.ParseLanguage(v)
}

func addLanguageFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("language", "L", string(curriculum.Latin), "Language: greek or latin")
}

// now is a variable so tests can pin the clock.
var now = func() time.Time {
	return time.Now().UTC()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
