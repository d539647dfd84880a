// Package server exposes the analytics API over HTTP and streams newly
// ingested posts over a websocket feed.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/selivandex/finpulse/internal/adapters/config"
	"github.com/selivandex/finpulse/pkg/logger"
)

// Server is the HTTP front of the service
type Server struct {
	httpServer *http.Server
	hub        *Hub
}

// New builds the router and wraps it in an http.Server
func New(cfg *config.ServerConfig, handler *Handler) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", handler.Health)

	api := router.Group("/api")
	{
		api.POST("/analyze", handler.Analyze)
		api.GET("/fetch-posts", handler.FetchPosts)

		api.POST("/posts", handler.SavePost)
		api.GET("/posts", handler.ListPosts)
		api.GET("/posts/:id", handler.GetPost)

		api.GET("/stats", handler.Stats)
		api.GET("/trends", handler.Trends)
		api.GET("/market-pulse", handler.MarketPulse)
		api.GET("/sentiment-by-ticker", handler.SentimentByTicker)

		api.GET("/tickers", handler.ListTickers)
		api.GET("/sectors", handler.ListSectors)
		api.GET("/industries", handler.ListIndustries)
	}

	router.GET("/ws/feed", handler.Feed)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		hub: handler.hub,
	}
}

// Run serves until the context is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")

	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
