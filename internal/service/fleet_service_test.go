package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/api/apitest"
	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func yarisInput() model.CarInput {
	return model.CarInput{
		Make:         "Toyota",
		Model:        "Yaris",
		Year:         2022,
		LicensePlate: "WW-123-AB",
		VIN:          "JTDKB20U993000000",
		Color:        "белый",
		Status:       model.CarStatusAvailable,
		DailyRate:    35000,
	}
}

func nadiaInput() model.ClientInput {
	return model.ClientInput{
		FirstName:           "Nadia",
		LastName:            "Tazi",
		Email:               "nadia@example.com",
		Phone:               "+212600000000",
		DriverLicenseNumber: "B-123456",
	}
}

func TestAdminManagesCars(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	sess := loginAs(t, backend, "root", model.RoleAdmin)
	svc := NewFleetService(zap.NewNop())
	ctx := context.Background()

	car, err := svc.CreateCar(ctx, sess, yarisInput())
	require.NoError(t, err)
	assert.NotEmpty(t, car.ID)
	assert.Equal(t, "Toyota Yaris (WW-123-AB)", car.Title())

	input := car.Input()
	input.DailyRate = 40000
	input.Description = "После ТО"
	updated, err := svc.UpdateCar(ctx, sess, car.ID, input)
	require.NoError(t, err)
	assert.Equal(t, model.Money(40000), updated.DailyRate)
	assert.Equal(t, "После ТО", updated.Description)

	updated, err = svc.SetCarStatus(ctx, sess, car.ID, model.CarStatusMaintenance)
	require.NoError(t, err)
	assert.Equal(t, model.CarStatusMaintenance, updated.Status)
	assert.Equal(t, model.Money(40000), updated.DailyRate, "status change keeps the other fields")

	require.NoError(t, svc.DeleteCar(ctx, sess, car.ID))

	cars, err := svc.ListCars(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, cars)

	err = svc.DeleteCar(ctx, sess, car.ID)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestManagerCannotChangeCars(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()
	car := backend.AddCar(model.Car{Make: "Renault", Model: "Clio", LicensePlate: "AA-1"})

	sess := loginAs(t, backend, "anna", model.RoleManager)
	svc := NewFleetService(zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateCar(ctx, sess, yarisInput())
	assert.ErrorIs(t, err, session.ErrForbidden)

	_, err = svc.SetCarStatus(ctx, sess, car.ID, model.CarStatusMaintenance)
	assert.ErrorIs(t, err, session.ErrForbidden)

	err = svc.DeleteCar(ctx, sess, car.ID)
	assert.ErrorIs(t, err, session.ErrForbidden)

	cars, err := svc.ListCars(ctx, sess)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, model.CarStatusAvailable, cars[0].Status)
}

func TestDeleteRefusedWithOpenReservations(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()
	car := backend.AddCar(model.Car{Make: "Renault", Model: "Clio", LicensePlate: "AA-1", DailyRate: 25000})
	client := backend.AddClient(model.Client{FirstName: "Omar", LastName: "Benjelloun", Email: "omar@example.com"})
	backend.AddReservation(model.Reservation{
		CarID:     car.ID,
		ClientID:  client.ID,
		StartDate: daterange.MustParse("2030-05-01"),
		EndDate:   daterange.MustParse("2030-05-05"),
		Status:    model.ReservationStatusConfirmed,
	})

	sess := loginAs(t, backend, "root", model.RoleAdmin)
	svc := NewFleetService(zap.NewNop())
	ctx := context.Background()

	err := svc.DeleteCar(ctx, sess, car.ID)
	assert.ErrorIs(t, err, ErrHasOpenReservations)
	err = svc.DeleteClient(ctx, sess, client.ID)
	assert.ErrorIs(t, err, ErrHasOpenReservations)

	clients, err := svc.ListClients(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	// Финальные статусы удалению не мешают
	other := backend.AddCar(model.Car{Make: "Dacia", Model: "Logan", LicensePlate: "BB-2"})
	backend.AddReservation(model.Reservation{
		CarID:     other.ID,
		ClientID:  client.ID,
		StartDate: daterange.MustParse("2030-03-01"),
		EndDate:   daterange.MustParse("2030-03-03"),
		Status:    model.ReservationStatusCompleted,
	})
	require.NoError(t, svc.DeleteCar(ctx, sess, other.ID))
}

func TestManagerManagesClients(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()
	backend.AddClient(model.Client{FirstName: "Omar", LastName: "Benjelloun", Email: "omar@example.com"})

	sess := loginAs(t, backend, "anna", model.RoleManager)
	svc := NewFleetService(zap.NewNop())
	ctx := context.Background()

	client, err := svc.CreateClient(ctx, sess, nadiaInput())
	require.NoError(t, err)
	assert.Equal(t, "Nadia Tazi", client.FullName())
	assert.NotNil(t, client.RegisteredAt)

	_, err = svc.CreateClient(ctx, sess, nadiaInput())
	assert.ErrorIs(t, err, api.ErrConflict)
	var remote *api.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Client with this email already exists.", remote.Message)

	input := client.Input()
	input.Phone = "+212611111111"
	updated, err := svc.UpdateClient(ctx, sess, client.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "+212611111111", updated.Phone)

	input.Email = "omar@example.com"
	_, err = svc.UpdateClient(ctx, sess, client.ID, input)
	assert.ErrorIs(t, err, api.ErrConflict)

	err = svc.DeleteClient(ctx, sess, client.ID)
	assert.ErrorIs(t, err, session.ErrForbidden, "only an admin deletes clients")

	admin := loginAs(t, backend, "root", model.RoleAdmin)
	require.NoError(t, svc.DeleteClient(ctx, admin, client.ID))

	clients, err := svc.ListClients(ctx, sess)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Omar Benjelloun", clients[0].FullName())
}
