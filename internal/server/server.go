package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matthieukhl/nexsales/internal/assistant"
	"github.com/matthieukhl/nexsales/internal/executor"
	"github.com/matthieukhl/nexsales/internal/store"
)

const version = "0.1.0"

type Options struct {
	// Mode is the gin mode; empty keeps gin's current mode
	Mode          string
	RestockBuffer int
}

type Server struct {
	router      *gin.Engine
	store       *store.Store
	executor    *executor.Executor
	interpreter *assistant.Interpreter
	opts        Options
	log         *zap.Logger
}

// NewServer creates a new server instance
func NewServer(st *store.Store, ex *executor.Executor, in *assistant.Interpreter, opts Options, log *zap.Logger) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	server := &Server{
		router:      router,
		store:       st,
		executor:    ex,
		interpreter: in,
		opts:        opts,
		log:         log,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
		api.GET("/config", s.getConfig)
		api.GET("/dashboard", s.dashboard)
		api.GET("/report", s.dailyReport)
		api.GET("/analytics", s.analytics)

		api.POST("/chat", s.chat)
		api.POST("/mock-data", s.mockData)

		api.GET("/products", s.listProducts)
		api.POST("/products", s.createProduct)
		api.POST("/products/restock", s.restockProducts)
		api.GET("/products/:id", s.getProduct)
		api.PATCH("/products/:id", s.updateProduct)
		api.DELETE("/products/:id", s.deleteProduct)

		api.GET("/customers", s.listCustomers)
		api.POST("/customers", s.createCustomer)
		api.GET("/customers/:id/orders", s.customerOrders)
		api.DELETE("/customers/:id", s.deleteCustomer)

		api.GET("/orders", s.listOrders)
		api.POST("/orders", s.createOrder)
		api.GET("/orders/:id", s.getOrder)
		api.PATCH("/orders/:id/status", s.updateOrderStatus)
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then drains open requests
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
