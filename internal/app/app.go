// Package app is the composition root shared by the server and the seed
// CLI: it opens every resource named by the config and builds the services.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"storyfusion/internal/cache"
	"storyfusion/internal/config"
	"storyfusion/internal/dataset"
	"storyfusion/internal/model"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/repository"
	"storyfusion/internal/repository/sqlrepo"
	"storyfusion/internal/service"
)

type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Catalog *dataset.Catalog
	Store   *repository.Store
	Redis   *redis.Client // nil when REDIS_URI is unset
}

// Services are the use cases wired over one App
type Services struct {
	Answers      *service.AnswerService
	Comments     *service.CommentService
	Predictions  *service.PredictionService
	WorkNouns    *service.NounService
	FictionNouns *service.NounService
	Admin        *service.AdminService
}

// New loads the reference data, opens the store and creates its schema,
// and connects Redis when configured
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	catalog, err := dataset.Load(ctx, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	for _, m := range catalog.Missing {
		log.Warn("data file missing", "file", m)
	}

	store, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	log.Info("store connected", "driver", cfg.Store.Driver)

	if err := store.Init(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	a := &App{Config: cfg, Log: log, Catalog: catalog, Store: store}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			_ = store.Close(ctx)
			return nil, fmt.Errorf("failed to ping Redis: %w", err)
		}
		log.Info("redis connected", "addr", cfg.Redis.Addr)
		a.Redis = rdb
	}
	return a, nil
}

// OpenStore connects the configured driver
func OpenStore(ctx context.Context, cfg config.StoreConfig) (*repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return repository.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	case config.DriverPostgres:
		db, err := sqlrepo.Open(config.DriverPostgres, cfg.PostgresDSN, false)
		if err != nil {
			return nil, err
		}
		return sqlrepo.NewStore(db), nil
	case config.DriverSQLite:
		db, err := sqlrepo.Open(config.DriverSQLite, cfg.SQLitePath, false)
		if err != nil {
			return nil, err
		}
		return sqlrepo.NewStore(db), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// Services builds the use cases. b may be nil.
func (a *App) Services(b service.Broadcaster) *Services {
	s := &Services{
		Answers:      service.NewAnswerService(a.Store.Answers, a.Catalog, a.Log),
		Comments:     service.NewCommentService(a.Store.WorkComments, a.Store.QuestionComments),
		Predictions:  service.NewPredictionService(a.Store.Predictions, a.Catalog, a.Log),
		WorkNouns:    service.NewNounService(a.Store.Nouns(model.NounSubjectWork), model.NounSubjectWork, a.Log),
		FictionNouns: service.NewNounService(a.Store.Nouns(model.NounSubjectFiction), model.NounSubjectFiction, a.Log),
		Admin:        service.NewAdminService(a.Store, a.Catalog),
	}
	if a.Redis != nil {
		s.Predictions.SetCaches(
			cache.NewScoreCache(a.Redis, a.Config.Redis.ScoreTTL),
			cache.NewLeaderboardCache(a.Redis),
		)
	}
	if b != nil {
		s.Answers.SetBroadcaster(b)
		s.Predictions.SetBroadcaster(b)
		s.WorkNouns.SetBroadcaster(b)
		s.FictionNouns.SetBroadcaster(b)
	}
	return s
}

// Close releases Redis and the store
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	errs = append(errs, a.Store.Close(ctx))
	return errors.Join(errs...)
}
