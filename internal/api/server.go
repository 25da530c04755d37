// Package api serves the rewards service over HTTP for companion apps.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sandeepkv93/chorejar/internal/rewards"
)

type Options struct {
	Logger       *log.Logger
	AllowOrigins []string
}

// Server is the HTTP front of one rewards.Service.
type Server struct {
	svc    *rewards.Service
	router *gin.Engine
	logger *log.Logger
}

func NewServer(svc *rewards.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	router := gin.New()
	s := &Server{svc: svc, router: router, logger: opts.Logger}

	router.Use(gin.Recovery(), s.requestLogger())
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(opts.AllowOrigins) == 0 || slices.Contains(opts.AllowOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = opts.AllowOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/health", s.handleHealth)

	api := router.Group("/api", s.rollover())
	{
		api.GET("/state", s.handleState)

		api.POST("/checklist", s.handleAddChecklist)
		api.POST("/checklist/:id/toggle", s.handleToggleChecklist)
		api.DELETE("/checklist/:id", s.handleDeleteChecklist)

		api.POST("/kanban", s.handleAddKanban)
		api.POST("/kanban/:id/move", s.handleMoveKanban)
		api.DELETE("/kanban/:id", s.handleDeleteKanban)

		api.POST("/stars/grant", s.handleGrant)
		api.POST("/stars/exchange", s.handleExchange)
		api.GET("/stars/exchange/preview", s.handleExchangePreview)

		api.POST("/piggy/deposit", s.handleDeposit)
		api.POST("/piggy/withdraw", s.handleWithdraw)
		api.POST("/piggy/payout", s.handlePayout)
		api.PUT("/piggy/goal", s.handleGoal)

		api.POST("/wallet/spend", s.handleSpend)
		api.POST("/wallet/credit", s.handleCredit)

		api.PUT("/settings", s.handleSettings)
		api.GET("/stats/weekly", s.handleWeekly)

		api.POST("/rules", s.handleAddRule)
		api.DELETE("/rules/:index", s.handleDeleteRule)

		api.POST("/wishlist", s.handleAddWish)
		api.DELETE("/wishlist/:id", s.handleDeleteWish)
		api.POST("/diary", s.handleAddDiary)
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

// rollover runs the daily and weekly checks before every API request, so
// a client that wakes the server up on a new day sees a fresh checklist.
func (s *Server) rollover() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if res, err := s.svc.CheckDailyReset(ctx); err != nil {
			s.logger.Warn("daily reset failed", "err", err)
		} else if res.Ran {
			s.logger.Info("day rolled over", "day", res.Today, "completed", res.Completed)
		}
		if _, err := s.svc.CheckWeeklyReset(ctx); err != nil {
			s.logger.Warn("weekly reset failed", "err", err)
		}
		c.Next()
	}
}
