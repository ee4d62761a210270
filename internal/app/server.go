package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"postboard-web/internal/config"
	"postboard-web/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

// Server une el servidor HTTP con el planificador de la caché.
type Server struct {
	http      *http.Server
	scheduler *scheduler.Scheduler
	logger    *zap.Logger
}

func New(cfg *config.Config, router *gin.Engine, sched *scheduler.Scheduler, logger *zap.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: cfg.Articles.Timeout + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		scheduler: sched,
		logger:    logger,
	}
}

func (s *Server) Addr() string {
	return s.http.Addr
}

// Run sirve peticiones hasta que ctx se cancela y después cierra con gracia.
// Las peticiones en vuelo tienen shutdownTimeout para terminar.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("🚀 Iniciando Postboard")

	if err := s.scheduler.Start(); err != nil {
		return err
	}
	defer s.scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🌐 Servidor iniciando en", zap.String("address", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("❌ Error iniciando servidor", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("🛑 Cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("❌ Error cerrando servidor", zap.Error(err))
		return err
	}

	s.logger.Info("✅ Servidor cerrado exitosamente")
	return nil
}
