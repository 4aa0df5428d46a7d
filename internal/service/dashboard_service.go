package service

import (
	"context"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"go.uber.org/zap"
)

const (
	recentItemsLimit    = 3
	recentActivityLimit = 5
	activityMaxPages    = 5
)

// ManagerDashboard данные панели менеджера
type ManagerDashboard struct {
	Stats              model.ManagerStats
	RecentClients      []model.RecentClient
	RecentReservations []model.RecentReservation
}

// AdminDashboard данные панели администратора
type AdminDashboard struct {
	Stats      model.AdminStats
	Activities []model.ActivityEntry
}

type DashboardService struct {
	admin  *AdminService
	logger *zap.Logger
}

func NewDashboardService(admin *AdminService, logger *zap.Logger) *DashboardService {
	return &DashboardService{admin: admin, logger: logger}
}

func (s *DashboardService) Manager(ctx context.Context, sess *session.Session) (*ManagerDashboard, error) {
	if _, err := sess.Require(model.RoleManager); err != nil {
		return nil, err
	}

	stats, err := sess.API().ManagerStats(ctx)
	if err != nil {
		return nil, err
	}

	dash := &ManagerDashboard{Stats: *stats}

	// Списки "недавних" второстепенны: при ошибке панель показывается без них
	if dash.RecentClients, err = sess.API().RecentClients(ctx, recentItemsLimit); err != nil {
		s.logger.Warn("Failed to load recent clients", zap.Error(err))
	}
	if dash.RecentReservations, err = sess.API().RecentReservations(ctx, recentItemsLimit); err != nil {
		s.logger.Warn("Failed to load recent reservations", zap.Error(err))
	}

	return dash, nil
}

func (s *DashboardService) Admin(ctx context.Context, sess *session.Session) (*AdminDashboard, error) {
	if _, err := sess.Require(model.RoleAdmin); err != nil {
		return nil, err
	}

	stats, err := sess.API().AdminStats(ctx)
	if err != nil {
		return nil, err
	}

	activities, err := s.admin.RecentActivities(ctx, sess, recentActivityLimit, activityMaxPages, api.DefaultAuditPerPage)
	if err != nil {
		s.logger.Warn("Failed to load recent activities", zap.Error(err))
		activities = nil
	}

	return &AdminDashboard{Stats: *stats, Activities: activities}, nil
}
