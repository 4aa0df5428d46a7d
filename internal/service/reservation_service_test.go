package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/api/apitest"
	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	backend *apitest.Backend
	sess    *session.Session
	svc     *ReservationService
	car     model.Car
	client  model.Client
}

func newFixture(t *testing.T, policy reservation.Policy) *fixture {
	t.Helper()

	backend := apitest.NewBackend()
	t.Cleanup(backend.Close)

	f := &fixture{backend: backend}
	f.car = backend.AddCar(model.Car{Make: "Toyota", Model: "Yaris", LicensePlate: "WW-123-AB", DailyRate: model.MoneyFromFloat(250)})
	f.client = backend.AddClient(model.Client{FirstName: "Karim", LastName: "Alaoui", Email: "karim@example.com"})

	f.sess = loginAs(t, backend, "anna", model.RoleManager)
	f.svc = NewReservationService(policy, time.UTC, zap.NewNop())
	f.svc.now = fixedClock
	return f
}

func (f *fixture) add(status model.ReservationStatus, from, to string) model.Reservation {
	estimated, _ := reservation.EstimateCost(f.car.DailyRate, daterange.MustParse(from), daterange.MustParse(to))
	return f.backend.AddReservation(model.Reservation{
		CarID:              f.car.ID,
		ClientID:           f.client.ID,
		StartDate:          daterange.MustParse(from),
		EndDate:            daterange.MustParse(to),
		Status:             status,
		EstimatedTotalCost: estimated,
	})
}

func TestCreateRejectsConflictBeforeNetwork(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	f.add(model.ReservationStatusConfirmed, "2030-05-01", "2030-05-05")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.sess, Draft{CarID: f.car.ID, ClientID: f.client.ID, From: "2030-05-03", To: "2030-05-04"})
	require.Error(t, err)
	assert.ErrorIs(t, err, reservation.ErrDateConflict)

	conflict, ok := reservation.ConflictOf(err)
	require.True(t, ok)
	assert.Equal(t, "2030-05-01 .. 2030-05-05", conflict.String())
	assert.Len(t, f.backend.Reservations(), 1, "nothing was sent to the backend")

	created, err := f.svc.Create(ctx, f.sess, Draft{CarID: f.car.ID, ClientID: f.client.ID, From: "2030-05-06", To: "2030-05-10"})
	require.NoError(t, err)
	assert.Equal(t, model.MoneyFromFloat(1250), created.EstimatedTotalCost)

	items := f.sess.Reservations().Items()
	assert.Len(t, items, 2, "view is refreshed after create")
}

func TestCreateRejectsPastAndInvalidDates(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.sess, Draft{CarID: f.car.ID, ClientID: f.client.ID, From: "2030-04-19", To: "2030-04-22"})
	assert.ErrorIs(t, err, reservation.ErrPastDate)

	_, err = f.svc.Create(ctx, f.sess, Draft{CarID: f.car.ID, ClientID: f.client.ID, From: "2030-04-25", To: "2030-04-22"})
	assert.ErrorIs(t, err, reservation.ErrInvalidRange)

	_, err = f.svc.Create(ctx, f.sess, Draft{CarID: f.car.ID, ClientID: f.client.ID, From: "завтра", To: "2030-04-22"})
	assert.ErrorIs(t, err, reservation.ErrInvalidDate)
}

func TestCreateRejectsOverpayment(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)

	paid := model.MoneyFromFloat(600)
	_, err := f.svc.Create(context.Background(), f.sess, Draft{
		CarID: f.car.ID, ClientID: f.client.ID, From: "2030-05-01", To: "2030-05-02", AmountPaid: &paid,
	})
	assert.ErrorIs(t, err, reservation.ErrOverpayment)
	assert.Empty(t, f.backend.Reservations())

	paid = model.MoneyFromFloat(100)
	created, err := f.svc.Create(context.Background(), f.sess, Draft{
		CarID: f.car.ID, ClientID: f.client.ID, From: "2030-05-01", To: "2030-05-02", AmountPaid: &paid,
	})
	require.NoError(t, err)
	assert.Equal(t, model.MoneyFromFloat(400), created.PaymentDetails.RemainingBalance)
}

func TestCreateSurfacesBackendRejection(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)

	f.backend.RejectNext(http.StatusBadRequest, "Client has unpaid reservations.")
	_, err := f.svc.Create(context.Background(), f.sess, Draft{CarID: f.car.ID, ClientID: f.client.ID, From: "2030-05-01", To: "2030-05-02"})
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrRemoteRejection)
	assert.Contains(t, err.Error(), "Client has unpaid reservations.")
	assert.Empty(t, f.backend.Reservations())
}

func TestChangeStatusCompletion(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	res := f.add(model.ReservationStatusActive, "2030-04-15", "2030-04-19")
	ctx := context.Background()

	// Оплачено 1000 из 1250
	paid := model.MoneyFromFloat(1000)
	returned := time.Date(2030, 4, 19, 18, 0, 0, 0, time.UTC)

	_, err := f.svc.ChangeStatus(ctx, f.sess, res.ID, reservation.StatusChange{
		Status:            model.ReservationStatusCompleted,
		ActualReturnTime:  &returned,
		AdditionalCharges: model.MoneyFromFloat(200),
		AmountPaid:        &paid,
	})
	require.NoError(t, err)

	stored := f.backend.Reservations()[0]
	assert.Equal(t, model.ReservationStatusCompleted, stored.Status)
	require.NotNil(t, stored.FinalTotalCost)
	assert.Equal(t, model.MoneyFromFloat(1450), *stored.FinalTotalCost)
	assert.Equal(t, model.MoneyFromFloat(450), stored.PaymentDetails.RemainingBalance)

	_, err = f.svc.ChangeStatus(ctx, f.sess, res.ID, reservation.StatusChange{Status: model.ReservationStatusCompleted})
	assert.ErrorIs(t, err, reservation.ErrMissingReturnTime)
}

func TestChangeStatusRollbackOnRejection(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	res := f.add(model.ReservationStatusPendingConfirmation, "2030-05-01", "2030-05-05")
	ctx := context.Background()

	_, err := f.svc.Refresh(ctx, f.sess)
	require.NoError(t, err)

	f.backend.RejectNext(http.StatusBadRequest, "Car is in maintenance.")
	_, err = f.svc.ChangeStatus(ctx, f.sess, res.ID, reservation.StatusChange{Status: model.ReservationStatusConfirmed})
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrRemoteRejection)
	assert.Contains(t, err.Error(), "Car is in maintenance.")

	local, ok := f.sess.Reservations().Find(func(r model.Reservation) bool { return r.ID == res.ID })
	require.True(t, ok)
	assert.Equal(t, model.ReservationStatusPendingConfirmation, local.Status)
	assert.Equal(t, model.ReservationStatusPendingConfirmation, f.backend.Reservations()[0].Status)
}

func TestStrictPolicyBlocksLeavingTerminalState(t *testing.T) {
	f := newFixture(t, reservation.PolicyStrict)
	res := f.add(model.ReservationStatusCompleted, "2030-04-01", "2030-04-03")

	_, err := f.svc.ChangeStatus(context.Background(), f.sess, res.ID, reservation.StatusChange{Status: model.ReservationStatusActive})
	assert.ErrorIs(t, err, reservation.ErrTransitionNotAllowed)
	assert.Equal(t, model.ReservationStatusCompleted, f.backend.Reservations()[0].Status)
}

func TestPermissivePolicyAllowsAnyTransition(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	res := f.add(model.ReservationStatusCompleted, "2030-04-01", "2030-04-03")

	updated, err := f.svc.ChangeStatus(context.Background(), f.sess, res.ID, reservation.StatusChange{Status: model.ReservationStatusPendingConfirmation})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusPendingConfirmation, updated.Status)
}

func TestUpdateKeepsHistoricalStartAndIgnoresOwnPeriod(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	res := f.add(model.ReservationStatusActive, "2030-04-10", "2030-04-25")
	f.add(model.ReservationStatusConfirmed, "2030-05-01", "2030-05-05")
	ctx := context.Background()

	updated, err := f.svc.Update(ctx, f.sess, res.ID, Draft{From: "2030-04-10", To: "2030-04-28", Notes: "продление"})
	require.NoError(t, err)
	assert.Equal(t, "2030-04-28", updated.EndDate.String())

	_, err = f.svc.Update(ctx, f.sess, res.ID, Draft{From: "2030-04-10", To: "2030-05-02"})
	assert.ErrorIs(t, err, reservation.ErrDateConflict)

	_, err = f.svc.Update(ctx, f.sess, res.ID, Draft{From: "2030-04-09", To: "2030-04-28"})
	assert.ErrorIs(t, err, reservation.ErrPastDate)
}

func TestUpdateNotesSkipsAvailabilityWhenDatesUnchanged(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	f.add(model.ReservationStatusConfirmed, "2030-05-01", "2030-05-05")
	// Заявка, пересекающаяся с подтверждённой бронью той же машины
	pending := f.add(model.ReservationStatusPendingConfirmation, "2030-05-03", "2030-05-07")
	ctx := context.Background()

	updated, err := f.svc.Update(ctx, f.sess, pending.ID, Draft{From: "2030-05-03", To: "2030-05-07", Notes: "детское кресло"})
	require.NoError(t, err)
	assert.Equal(t, "детское кресло", updated.Notes)
	assert.Equal(t, "2030-05-03", updated.StartDate.String())

	// Сдвиг дат по-прежнему проверяется
	_, err = f.svc.Update(ctx, f.sess, pending.ID, Draft{From: "2030-05-04", To: "2030-05-07"})
	assert.ErrorIs(t, err, reservation.ErrDateConflict)
}

func TestDeleteRestoresOnFailure(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	res := f.add(model.ReservationStatusPendingConfirmation, "2030-05-01", "2030-05-05")
	ctx := context.Background()

	_, err := f.svc.Refresh(ctx, f.sess)
	require.NoError(t, err)

	f.backend.RejectNext(http.StatusInternalServerError, "Error deleting reservation.")
	err = f.svc.Delete(ctx, f.sess, res.ID)
	require.Error(t, err)
	assert.Len(t, f.sess.Reservations().Items(), 1)

	require.NoError(t, f.svc.Delete(ctx, f.sess, res.ID))
	assert.Empty(t, f.sess.Reservations().Items())
	assert.Empty(t, f.backend.Reservations())

	err = f.svc.Delete(ctx, f.sess, res.ID)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestAvailableCarsIncludesCurrentCar(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	rented := f.backend.AddCar(model.Car{Make: "Renault", Model: "Clio", LicensePlate: "WW-456-CD", Status: model.CarStatusRented})
	f.backend.AddCar(model.Car{Make: "Dacia", Model: "Logan", LicensePlate: "WW-789-EF", Status: model.CarStatusMaintenance})
	ctx := context.Background()

	cars, err := f.svc.AvailableCars(ctx, f.sess, "")
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, f.car.ID, cars[0].ID)

	cars, err = f.svc.AvailableCars(ctx, f.sess, rented.ID)
	require.NoError(t, err)
	assert.Len(t, cars, 2)
}

func TestDigest(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	pickup := f.add(model.ReservationStatusConfirmed, "2030-04-20", "2030-04-22")
	ret := f.add(model.ReservationStatusActive, "2030-04-15", "2030-04-20")
	f.add(model.ReservationStatusPendingConfirmation, "2030-04-20", "2030-04-21")

	pickups, returns, err := f.svc.Digest(context.Background(), f.sess, f.svc.Today())
	require.NoError(t, err)
	require.Len(t, pickups, 1)
	require.Len(t, returns, 1)
	assert.Equal(t, pickup.ID, pickups[0].ID)
	assert.Equal(t, ret.ID, returns[0].ID)
}

func TestBlockedDaysForCalendar(t *testing.T) {
	f := newFixture(t, reservation.PolicyPermissive)
	f.add(model.ReservationStatusConfirmed, "2030-05-30", "2030-06-02")

	days, err := f.svc.BlockedDays(context.Background(), f.sess, f.car.ID, "", 2030, time.June)
	require.NoError(t, err)
	assert.Len(t, days, 2)
	assert.True(t, days[daterange.MustParse("2030-06-01")])
}

func TestReservationsRequireLogin(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	sess, err := newTestRegistry(backend).Get(context.Background(), 77, 77)
	require.NoError(t, err)

	svc := NewReservationService(reservation.PolicyPermissive, time.UTC, zap.NewNop())
	_, err = svc.List(context.Background(), sess)
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}
