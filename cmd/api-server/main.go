package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pricecompare/internal/compare"
	"pricecompare/internal/history"
	"pricecompare/internal/localstore"
	"pricecompare/internal/logging"
	"pricecompare/internal/pricechart"
	"pricecompare/internal/profile"
	"pricecompare/internal/session"
	synchub "pricecompare/internal/sync"
	"pricecompare/internal/wishlist"
	"pricecompare/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	logger := logging.Logger()

	srvCfg := utils.LoadServerConfig()
	store, err := localstore.Open(context.Background(), utils.LoadStoreConfig())
	if err != nil {
		log.Fatalf("open store failed: %v", err)
	}
	defer store.Close()

	tokenCfg := utils.LoadTokenConfig()
	tokens := profile.TokenService{
		Secret:   []byte(tokenCfg.Secret),
		Issuer:   tokenCfg.Issuer,
		Duration: tokenCfg.Duration,
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start TCP sync first so binding errors show up early
	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub, tokens.ProfileIDFromToken))
	tcpSrv := synchub.NewServer(srvCfg.SyncAddr, hub, tokens.ProfileIDFromToken)
	if err := tcpSrv.Listen(); err != nil {
		log.Fatalf("tcp sync listen failed: %v", err)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": store.Name})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
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

	// Profiles (public)
	profile.NewHandler(tokens).RegisterRoutes(router.Group("/profiles"))

	// Chart and comparison (public)
	pricechart.NewHandler(pricechart.NewSynthesizer()).RegisterRoutes(&router.RouterGroup)
	compare.NewHandler().RegisterRoutes(router.Group("/compare"))

	// Per-profile slots
	me := router.Group("/me")
	me.Use(profile.Middleware(tokens))

	locks := history.NewLocks()
	history.NewHandler(store, locks, hub).RegisterRoutes(me)
	wishlist.NewHandler(store, locks, hub).RegisterRoutes(me)
	session.NewHandler(store, hub).RegisterRoutes(me)

	httpSrv := &http.Server{
		Addr:    srvCfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Serve(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("HTTP API server listening", "addr", srvCfg.HTTPAddr, "store", store.Name)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}

	logger.Info("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "err", err)
	}
	if err := tcpSrv.Close(); err != nil {
		logger.Error("tcp shutdown error", "err", err)
	}

	wg.Wait()
	logger.Info("servers stopped")
}
