package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"go.uber.org/zap"
)

// SessionSource вошедшие операторы
type SessionSource interface {
	ActiveSessions(ctx context.Context) ([]*session.Session, error)
}

// DigestSource выдачи и возвраты за день
type DigestSource interface {
	Digest(ctx context.Context, sess *session.Session, day daterange.Date) (pickups, returns []model.Reservation, err error)
}

// DigestLog отметки об отправке (переживают перезапуск)
type DigestLog interface {
	MarkSent(ctx context.Context, telegramID int64, day daterange.Date, pickups, returns int) (bool, error)
	Unmark(ctx context.Context, telegramID int64, day daterange.Date) error
}

// DigestSender доставляет дайджест оператору
type DigestSender interface {
	SendDigest(ctx context.Context, chatID int64, day daterange.Date, pickups, returns []model.Reservation) error
}

// SchedulerConfig параметры ежедневного дайджеста
type SchedulerConfig struct {
	Hour     int // час отправки в часовом поясе агентства, < 0 - выключено
	Location *time.Location
	Interval time.Duration // как часто проверять, пора ли отправлять
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cfg      SchedulerConfig
	sessions SessionSource
	digests  DigestSource
	log      DigestLog
	sender   DigestSender
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	sent     map[int64]daterange.Date // последний отправленный день по оператору
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewScheduler создаёт новый планировщик
func NewScheduler(cfg SchedulerConfig, sessions SessionSource, digests DigestSource, log DigestLog, sender DigestSender, logger *zap.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	return &Scheduler{
		cfg:      cfg,
		sessions: sessions,
		digests:  digests,
		log:      log,
		sender:   sender,
		logger:   logger,
		now:      time.Now,
		sent:     make(map[int64]daterange.Date),
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	if s.cfg.Hour < 0 {
		s.logger.Info("Daily digest disabled")
		return
	}

	s.logger.Info("Starting background scheduler",
		zap.Int("digest_hour", s.cfg.Hour),
		zap.String("timezone", s.cfg.Location.String()))

	go s.runDigestTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
}

func (s *Scheduler) runDigestTask(ctx context.Context) {
	// Первая проверка сразу при старте
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("Digest task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Digest task cancelled")
			return
		}
	}
}

// RunOnce рассылает сегодняшний дайджест тем, кому он ещё не отправлен.
// До часа отправки ничего не делает.
func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.now().In(s.cfg.Location)
	if now.Hour() < s.cfg.Hour {
		return
	}
	day := daterange.FromTime(now)

	sessions, err := s.sessions.ActiveSessions(ctx)
	if err != nil {
		s.logger.Error("Failed to list active sessions", zap.Error(err))
		return
	}

	for _, sess := range sessions {
		if ctx.Err() != nil {
			return
		}
		if s.alreadySent(sess.TelegramID(), day) {
			continue
		}
		if _, err := sess.Require(model.RoleManager); err != nil {
			continue
		}
		s.deliver(ctx, sess, day)
	}
}

func (s *Scheduler) deliver(ctx context.Context, sess *session.Session, day daterange.Date) {
	logger := s.logger.With(zap.Int64("telegram_id", sess.TelegramID()), zap.String("day", day.String()))

	pickups, returns, err := s.digests.Digest(ctx, sess, day)
	if err != nil {
		logger.Warn("Failed to build digest", zap.Error(err))
		return
	}

	fresh, err := s.log.MarkSent(ctx, sess.TelegramID(), day, len(pickups), len(returns))
	if err != nil {
		logger.Error("Failed to mark digest", zap.Error(err))
		return
	}
	s.remember(sess.TelegramID(), day)
	if !fresh {
		logger.Debug("Digest already sent")
		return
	}

	if len(pickups) == 0 && len(returns) == 0 {
		logger.Debug("Nothing to report today")
		return
	}

	if err := s.sender.SendDigest(ctx, sess.ChatID(), day, pickups, returns); err != nil {
		logger.Error("Failed to send digest", zap.Error(err))
		s.forget(sess.TelegramID())
		if err := s.log.Unmark(ctx, sess.TelegramID(), day); err != nil {
			logger.Error("Failed to unmark digest", zap.Error(err))
		}
		return
	}

	logger.Info("Digest sent", zap.Int("pickups", len(pickups)), zap.Int("returns", len(returns)))
}

func (s *Scheduler) alreadySent(telegramID int64, day daterange.Date) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.sent[telegramID]
	return ok && last.Equal(day)
}

func (s *Scheduler) remember(telegramID int64, day daterange.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[telegramID] = day
}

func (s *Scheduler) forget(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sent, telegramID)
}
