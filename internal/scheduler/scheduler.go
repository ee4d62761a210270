package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	warmTimeout = 30 * time.Second
	stopTimeout = 5 * time.Second
)

// Warmer es lo único que el planificador necesita de la caché de artículos.
type Warmer interface {
	Warm(ctx context.Context) error
}

// Scheduler recarga la caché de artículos cada cierto intervalo para que la
// primera visita tras expirar el TTL no espere a la API.
type Scheduler struct {
	cron     *cron.Cron
	warmer   Warmer
	logger   *zap.Logger
	interval time.Duration
	timeout  time.Duration
}

func New(warmer Warmer, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		warmer:   warmer,
		logger:   logger,
		interval: interval,
		timeout:  warmTimeout,
	}
}

// Enabled es falso con intervalo cero o sin nada que calentar.
func (s *Scheduler) Enabled() bool {
	return s != nil && s.warmer != nil && s.interval > 0
}

// Start lanza una recarga inmediata en segundo plano y programa las siguientes.
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("schedule cache warm: %w", err)
	}

	go s.run()
	s.cron.Start()
	s.logger.Info("⏰ Cache warm scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop espera a que termine la recarga en curso, como mucho stopTimeout.
func (s *Scheduler) Stop() {
	if !s.Enabled() {
		return
	}
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(stopTimeout):
	}
	s.logger.Info("⏰ Cache warm scheduler stopped")
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.warmer.Warm(ctx); err != nil {
		s.logger.Warn("⚠️ Cache warm failed", zap.Error(err))
		return
	}
	s.logger.Debug("🔥 Cache warmed", zap.Duration("took", time.Since(start)))
}
