// Package server exposes the billing pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	companyservice "github.com/andeslabs/facturador/internal/company/service"
	"github.com/andeslabs/facturador/internal/config"
	pipelineservice "github.com/andeslabs/facturador/internal/pipeline/service"
)

type Server struct {
	cfg       *config.Config
	pipeline  pipelineservice.Service
	directory companyservice.Directory
	registry  *prometheus.Registry
	logger    *zap.Logger
}

type Params struct {
	fx.In

	Cfg       *config.Config
	Pipeline  pipelineservice.Service
	Directory companyservice.Directory
	Registry  *prometheus.Registry
	Logger    *zap.Logger
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:       p.Cfg,
		pipeline:  p.Pipeline,
		directory: p.Directory,
		registry:  p.Registry,
		logger:    p.Logger.Named("server"),
	}
}

func NewEngine(s *Server) *gin.Engine {
	if s.cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = s.cfg.Server.MaxUploadBytes

	engine.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := engine.Group("/api/v1")
	api.GET("/empresas", s.ListCompanies)
	api.POST("/inventario/upload", s.AnalyzeInventory)
	api.POST("/facturacion/uploadFacturacion", s.BuildWorkbook)
	api.POST("/informes/zip", s.BuildArchive)
	api.GET("/verificacion/facturado", s.CheckBilled)

	return engine
}

// RunHTTP hangs the HTTP listener off the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: engine,
	}
	logger = logger.Named("server.http")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("listening", zap.String("addr", cfg.Server.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
