package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/Freeeeeet/rental_desk/internal/api/apitest"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestActivityMessage(t *testing.T) {
	tests := []struct {
		name string
		log  model.AuditLog
		want string
	}{
		{
			name: "create manager",
			log:  model.AuditLog{Action: "create_manager", UserUsername: "root", Details: map[string]interface{}{"username": "anna"}},
			want: "Root создал менеджера 'anna'",
		},
		{
			name: "login success",
			log:  model.AuditLog{Action: "login_success", UserUsername: "anna", Status: "success"},
			want: "Пользователь 'anna' вошёл в систему",
		},
		{
			name: "login failure with status",
			log:  model.AuditLog{Action: "login_failure", Status: "failure", Details: map[string]interface{}{"username": "bob"}},
			want: "Неудачная попытка входа для 'bob' (статус: failure)",
		},
		{
			name: "status change",
			log: model.AuditLog{
				Action: "update_reservation_status", UserUsername: "anna", EntityID: "6650f1c2a9b3d4e5f6a7b8c9",
				Details: map[string]interface{}{"new_status": "confirmed"},
			},
			want: "Anna перевёл бронирование (6650f1c2...) в 'confirmed'",
		},
		{
			name: "update manager fields",
			log: model.AuditLog{
				Action: "update_manager", UserUsername: "root", EntityID: "abc",
				Details: map[string]interface{}{"updatedFields": map[string]interface{}{"fullName": "x", "password": "***"}},
			},
			want: "Root изменил менеджера (abc) (поля: fullName, password)",
		},
		{
			name: "server error",
			log:  model.AuditLog{Action: "http_error_500", Details: map[string]interface{}{"path": "/api/cars"}},
			want: "Система: ошибка http error 500 на '/api/cars'",
		},
		{
			name: "fallback",
			log:  model.AuditLog{Action: "delete_client", UserID: "u1", EntityType: "client", EntityID: "c1"},
			want: "U1 delete client client (c1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActivityMessage(tt.log))
		})
	}
}

func TestRecentActivitiesSkipsStatsViews(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	// Журнал: новые первыми; шесть входов вперемешку с просмотрами статистики
	for i := 0; i < 6; i++ {
		backend.AddAuditLog(model.AuditLog{Action: "login_success", UserUsername: fmt.Sprintf("user%d", i)})
		for j := 0; j < 5; j++ {
			backend.AddAuditLog(model.AuditLog{Action: "get_admin_stats", UserUsername: "root"})
		}
	}

	sess := loginAs(t, backend, "root", model.RoleAdmin)
	svc := NewAdminService(zap.NewNop())

	activities, err := svc.RecentActivities(context.Background(), sess, 5, 5, 20)
	require.NoError(t, err)
	require.Len(t, activities, 5)
	for _, a := range activities {
		assert.Equal(t, "login_success", a.Action)
	}
	assert.Equal(t, "Пользователь 'user5' вошёл в систему", activities[0].Message)

	// Одна страница из 20: в ней только 3 входа
	activities, err = svc.RecentActivities(context.Background(), sess, 5, 1, 20)
	require.NoError(t, err)
	assert.Len(t, activities, 3)
}

func TestManagerCannotManageManagers(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	sess := loginAs(t, backend, "anna", model.RoleManager)
	svc := NewAdminService(zap.NewNop())

	_, err := svc.ListManagers(context.Background(), sess)
	assert.ErrorIs(t, err, session.ErrForbidden)
}

func TestAdminManagesManagers(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	sess := loginAs(t, backend, "root", model.RoleAdmin)
	svc := NewAdminService(zap.NewNop())
	ctx := context.Background()

	m, err := svc.CreateManager(ctx, sess, model.ManagerInput{Username: " karim ", FullName: "Karim Alaoui", Password: "longpassword"})
	require.NoError(t, err)
	assert.Equal(t, "karim", m.Username)

	list, err := svc.ListManagers(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteManager(ctx, sess, m.ID))

	dash, err := NewDashboardService(svc, zap.NewNop()).Admin(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 0, dash.Stats.TotalManagers)
}

func TestManagerDashboard(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()
	backend.AddCar(model.Car{Make: "Toyota", Model: "Yaris", Status: model.CarStatusAvailable})
	backend.AddCar(model.Car{Make: "Renault", Model: "Clio", Status: model.CarStatusRented})

	sess := loginAs(t, backend, "anna", model.RoleManager)
	dash, err := NewDashboardService(NewAdminService(zap.NewNop()), zap.NewNop()).Manager(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.Stats.TotalCars)
	assert.Equal(t, 1, dash.Stats.AvailableCars)
	assert.Equal(t, 1, dash.Stats.RentedCars)
	assert.Empty(t, dash.RecentClients, "backend without recent endpoints leaves lists empty")
}

func TestSearchClients(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()
	backend.AddClient(model.Client{FirstName: "Nadia", LastName: "Tazi", Email: "nadia@example.com"})
	backend.AddClient(model.Client{FirstName: "Omar", LastName: "Benjelloun", Phone: "+212600000000"})

	sess := loginAs(t, backend, "anna", model.RoleManager)
	svc := NewFleetService(zap.NewNop())

	found, err := svc.SearchClients(context.Background(), sess, "TAZI")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Nadia Tazi", found[0].FullName())

	found, err = svc.SearchClients(context.Background(), sess, "+2126")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	all, err := svc.SearchClients(context.Background(), sess, " ")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
