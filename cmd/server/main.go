package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"storyfusion/internal/app"
	"storyfusion/internal/config"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/transport/rest"
	"storyfusion/internal/transport/ws"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", "error", err)
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub(log)
	svc := a.Services(wsHub)

	router := rest.NewRouter(&rest.Container{
		AnswerService:      svc.Answers,
		CommentService:     svc.Comments,
		PredictionService:  svc.Predictions,
		WorkNounService:    svc.WorkNouns,
		FictionNounService: svc.FictionNouns,
		AdminService:       svc.Admin,
		Catalog:            a.Catalog,
		WSHub:              wsHub,
		CORS:               cfg.CORS,
		Log:                log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", srv.Addr, "store", cfg.Store.Driver, "redis", a.Redis != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
	}

	wsHub.Close()
	if err := a.Close(context.Background()); err != nil {
		log.Error("failed to release resources", "error", err)
	}
	log.Info("server exited")
}
