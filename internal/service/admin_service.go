package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"go.uber.org/zap"
)

// AdminService менеджеры и журнал аудита (только администратор)
type AdminService struct {
	logger *zap.Logger
}

func NewAdminService(logger *zap.Logger) *AdminService {
	return &AdminService{logger: logger}
}

func (s *AdminService) ListManagers(ctx context.Context, sess *session.Session) ([]model.Manager, error) {
	if _, err := sess.Require(model.RoleAdmin); err != nil {
		return nil, err
	}
	return sess.API().ListManagers(ctx)
}

func (s *AdminService) CreateManager(ctx context.Context, sess *session.Session, input model.ManagerInput) (*model.Manager, error) {
	admin, err := sess.Require(model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	input.Username = strings.TrimSpace(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)

	m, err := sess.API().CreateManager(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Manager created",
		zap.String("manager_id", m.ID),
		zap.String("username", m.Username),
		zap.String("by", admin.Username))
	return m, nil
}

func (s *AdminService) UpdateManager(ctx context.Context, sess *session.Session, id string, patch model.ManagerPatch) (*model.Manager, error) {
	if _, err := sess.Require(model.RoleAdmin); err != nil {
		return nil, err
	}
	return sess.API().UpdateManager(ctx, id, patch)
}

func (s *AdminService) DeleteManager(ctx context.Context, sess *session.Session, id string) error {
	admin, err := sess.Require(model.RoleAdmin)
	if err != nil {
		return err
	}

	if err := sess.API().DeleteManager(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Manager deleted", zap.String("manager_id", id), zap.String("by", admin.Username))
	return nil
}

// AuditLogs страница журнала
func (s *AdminService) AuditLogs(ctx context.Context, sess *session.Session, page int, filter api.AuditFilter) (*model.AuditLogPage, error) {
	if _, err := sess.Require(model.RoleAdmin); err != nil {
		return nil, err
	}
	return sess.API().ListAuditLogs(ctx, page, api.DefaultAuditPerPage, filter)
}

// RecentActivities последние значимые события журнала для панели администратора.
// Просмотры статистики пропускаются; читается не больше maxPages страниц.
func (s *AdminService) RecentActivities(ctx context.Context, sess *session.Session, desired, maxPages, perPage int) ([]model.ActivityEntry, error) {
	if _, err := sess.Require(model.RoleAdmin); err != nil {
		return nil, err
	}

	activities := make([]model.ActivityEntry, 0, desired)
	for page := 1; page <= maxPages && len(activities) < desired; page++ {
		result, err := sess.API().ListAuditLogs(ctx, page, perPage, api.AuditFilter{})
		if err != nil {
			return nil, err
		}
		if len(result.Logs) == 0 {
			break
		}

		for _, log := range result.Logs {
			if log.Action == "get_admin_stats" {
				continue
			}
			activities = append(activities, model.ActivityEntry{
				ID:      log.ID,
				Message: ActivityMessage(log),
				At:      log.Timestamp,
				Action:  log.Action,
				Status:  log.Status,
			})
			if len(activities) == desired {
				break
			}
		}

		if result.TotalPages > 0 && page >= result.TotalPages {
			break
		}
	}

	return activities, nil
}

// ActivityMessage человекочитаемое описание записи журнала
func ActivityMessage(log model.AuditLog) string {
	actor := log.Actor()
	entityShort := ""
	if log.EntityID != "" {
		entityShort = shortID(log.EntityID)
	}

	var msg string
	switch {
	case log.Action == "create_manager" && detail(log, "username") != "":
		msg = fmt.Sprintf("%s создал менеджера '%s'", actor, detail(log, "username"))
	case log.Action == "delete_manager" && detail(log, "deleted_username") != "":
		msg = fmt.Sprintf("%s удалил менеджера '%s'", actor, detail(log, "deleted_username"))
	case log.Action == "update_manager" && log.EntityID != "":
		msg = fmt.Sprintf("%s изменил менеджера %s", actor, entityShort)
		if fields := updatedFields(log); fields != "" {
			msg += " (поля: " + fields + ")"
		}
	case log.Action == "login_success":
		msg = fmt.Sprintf("Пользователь '%s' вошёл в систему", actor)
	case log.Action == "login_failure" && detail(log, "username") != "":
		msg = fmt.Sprintf("Неудачная попытка входа для '%s'", detail(log, "username"))
	case log.Action == "create_car" && detail(log, "registration_number") != "":
		msg = fmt.Sprintf("%s добавил машину '%s'", actor, detail(log, "registration_number"))
	case log.Action == "update_car" && log.EntityID != "":
		msg = fmt.Sprintf("%s изменил машину %s", actor, entityShort)
	case log.Action == "delete_car" && detail(log, "registration_number") != "":
		msg = fmt.Sprintf("%s удалил машину '%s'", actor, detail(log, "registration_number"))
	case log.Action == "create_reservation" && detail(log, "client_name") != "":
		msg = fmt.Sprintf("%s создал бронирование для '%s'", actor, detail(log, "client_name"))
	case log.Action == "update_reservation_status" && detail(log, "new_status") != "" && log.EntityID != "":
		msg = fmt.Sprintf("%s перевёл бронирование %s в '%s'", actor, entityShort, detail(log, "new_status"))
	case strings.HasPrefix(log.Action, "http_error_") && detail(log, "path") != "":
		kind := "предупреждение"
		if strings.Contains(log.Action, "500") {
			kind = "ошибка"
		}
		msg = fmt.Sprintf("Система: %s %s на '%s'", kind, strings.ReplaceAll(log.Action, "_", " "), detail(log, "path"))
	default:
		msg = actor + " " + strings.ReplaceAll(log.Action, "_", " ")
		if log.EntityType != "" && log.EntityType != "system_stats" && log.EntityType != "N/A" {
			msg += " " + log.EntityType
			if entityShort != "" {
				msg += " " + entityShort
			}
		}
	}

	if log.Status != "" && log.Status != "success" && log.Status != "info" {
		msg += " (статус: " + log.Status + ")"
	}

	return capitalize(msg)
}

func detail(log model.AuditLog, key string) string {
	if log.Details == nil {
		return ""
	}
	v, ok := log.Details[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func updatedFields(log model.AuditLog) string {
	fields, ok := log.Details["updatedFields"].(map[string]interface{})
	if !ok {
		return ""
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// shortID первые 8 символов ID
func shortID(id string) string {
	if len(id) <= 8 {
		return "(" + id + ")"
	}
	return "(" + id[:8] + "...)"
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
