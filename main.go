package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/theanh205-kkt/webdt/checkout"
	"github.com/theanh205-kkt/webdt/config"
	orderControllers "github.com/theanh205-kkt/webdt/controllers/order"
	"github.com/theanh205-kkt/webdt/middleware"
	"github.com/theanh205-kkt/webdt/routes"
	"github.com/theanh205-kkt/webdt/session"
	"github.com/theanh205-kkt/webdt/store"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration failed")
	}

	// Data access: the REST store is the only durable owner of state; the
	// cache layer fronts it with invalidate-on-write reads.
	client := store.NewClient(cfg.StoreURL, log)
	cache := store.NewCache(client)

	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL)
	flows := checkout.NewManager(cache, log)
	hub := orderControllers.NewHub()

	// Gin setup
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog(log))

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Client:   client,
		Store:    cache,
		Sessions: sessions,
		Checkout: flows,
		OrderHub: hub,
	})

	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreURL).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
