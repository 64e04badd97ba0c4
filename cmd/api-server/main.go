package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"aniboard/internal/auth"
	"aniboard/internal/catalog"
	"aniboard/internal/config"
	"aniboard/internal/feed"
	"aniboard/internal/library"
	"aniboard/internal/logger"
	"aniboard/internal/playback"
	"aniboard/internal/progress"
	"aniboard/internal/recommend"
	"aniboard/internal/search"
	synchub "aniboard/internal/sync"
	"aniboard/pkg/database"
)

func main() {
	configDir := flag.String("config", "", "directory holding config.toml")
	flag.Parse()

	log := logger.New()
	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = logger.NewWithLevel(cfg.LogLevel)

	db, err := database.Open(database.Config{Path: cfg.DatabasePath})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// sync fabric first so bind errors surface early
	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub, log))
	var tcpSrv *synchub.Server
	if cfg.SyncAddr != "" {
		tcpSrv = synchub.NewServer(cfg.SyncAddr, hub, log)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// auth
	tokenSvc := auth.TokenService{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Duration: cfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	auth.NewHandler(authRepo, tokenSvc).RegisterRoutes(router.Group("/auth"))

	// catalog-backed read surface
	catalogClient := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout, log)
	feedSvc := feed.NewService(catalogClient, cfg.FeedTTL, log)
	searchSvc := search.NewService(catalogClient, cfg.FeedTTL, log)

	libRepo := library.NewRepo(db)
	recSvc := recommend.NewService(catalogClient, feedSvc, cfg.RecommendTTL, log)

	// reads serve anonymous callers a degraded view, never a 401
	public := router.Group("", auth.OptionalAuth(tokenSvc, authRepo))
	feed.NewHandler(feedSvc).RegisterRoutes(public)
	search.NewHandler(searchSvc).RegisterRoutes(public)
	recommend.NewHandler(recSvc, libRepo).RegisterRoutes(public)

	historyRepo := progress.NewRepo(db)
	libHandler := library.NewHandler(libRepo, historyRepo, hub, recSvc, log)
	libHandler.RegisterReadRoutes(public)

	protected := router.Group("", auth.RequireAuth(tokenSvc, authRepo))
	libHandler.RegisterRoutes(protected)
	progress.NewHandler(historyRepo).RegisterRoutes(protected)

	// playback sessions are anonymous UI state, no auth needed
	playbackMgr, err := playback.NewManager(playback.DefaultProviders())
	if err != nil {
		log.Fatal().Err(err).Msg("playback providers")
	}
	playback.NewHandler(playbackMgr).RegisterRoutes(router.Group(""))

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	if tcpSrv != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Str("addr", cfg.SyncAddr).Msg("sync listener starting")
			if err := tcpSrv.Run(); err != nil {
				errCh <- err
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", cfg.ListenAddr).Msg("http server starting")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if tcpSrv != nil {
		if err := tcpSrv.Close(); err != nil {
			log.Error().Err(err).Msg("sync shutdown")
		}
	}

	wg.Wait()
	log.Info().Msg("servers stopped")
}
