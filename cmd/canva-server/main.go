package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/config"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/handler"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/hub"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/registry"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/service"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/internal/snapshot"
	"github.com/Chandra-Sekhar-Dutta/RealTime-Canva/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	log.Init(cfg.Log)
	logger := log.L()

	store, err := newSnapshotStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize snapshot store")
	}

	wsHub := hub.NewHub(cfg.WebSocket)
	go wsHub.Run()

	reg := registry.New()
	boardSvc := service.NewBoardService(wsHub, reg, store)

	wsHandler := handler.NewWSHandler(wsHub, boardSvc, cfg.WebSocket)
	httpHandler := handler.NewHTTPHandler(reg, store)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(log.GinMiddleware(logger), gin.Recovery())
	router.GET("/ws", gin.WrapF(wsHandler.HandleWebSocket))
	httpHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("canva server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Empty-room pruner: grace-period deletions, cancelled by any rejoin.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Room.PruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				boardSvc.PruneEmptyRooms(gCtx, cfg.Room.GracePeriod)
			}
		}
	})

	// Defensive sweeps: inactive-room reaper and snapshot expiry.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Snapshot.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				boardSvc.PruneInactiveRooms(gCtx, cfg.Room.MaxIdle)
				boardSvc.ExpireSnapshots(gCtx, cfg.Snapshot.MaxAge)
			}
		}
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("canva server stopped")
}

func newSnapshotStore(cfg *config.Config) (snapshot.Store, error) {
	switch cfg.Snapshot.Backend {
	case "redis":
		return snapshot.NewRedisStore(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Snapshot.MaxAge)
	case "", "memory":
		return snapshot.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}
