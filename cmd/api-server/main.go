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

	"cinelist/internal/auth"
	"cinelist/internal/lists"
	"cinelist/internal/media"
	"cinelist/internal/provider"
	"cinelist/internal/ratings"
	synchub "cinelist/internal/sync"
	"cinelist/internal/users"
	"cinelist/pkg/database"
	"cinelist/pkg/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub))
	tcpSrv := synchub.NewServer(srvCfg.TCPAddr, hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
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

	// Catalog (public)
	provCfg := utils.LoadProviderConfig()
	mediaSvc := media.NewService(provider.NewTMDB(provCfg), provider.NewAniList(provCfg))
	mediaHandler := media.NewHandler(mediaSvc)
	mediaHandler.RegisterCategoryRoutes(
		router.Group("/movies"),
		router.Group("/series"),
		router.Group("/anime"),
	)
	mediaHandler.RegisterCombinedRoutes(router.Group("/media"))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Lists and ratings (protected, mounted under /media alongside the
	// public catalog routes)
	protectedMedia := router.Group("/media")
	protectedMedia.Use(auth.AuthMiddleware(tokenSvc, authRepo))

	listsHandler := lists.NewHandler(lists.NewRepo(db), hub)
	listsHandler.RegisterRoutes(protectedMedia)

	ratingsHandler := ratings.NewHandler(ratings.NewRepo(db), hub)
	ratingsHandler.RegisterRoutes(protectedMedia)

	// User directory (protected)
	usersGroup := router.Group("/users")
	usersGroup.Use(auth.AuthMiddleware(tokenSvc, authRepo))
	usersHandler := users.NewHandler(users.NewRepo(db))
	usersHandler.RegisterRoutes(usersGroup)

	httpSrv := &http.Server{
		Addr:    srvCfg.HTTPAddr,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", srvCfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	cancel()

	wg.Wait()
	log.Println("servers stopped")
}
