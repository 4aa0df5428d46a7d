package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Freeeeeet/rental_desk/internal/api/apitest"
	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(zap.NewNop())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newBackend(t *testing.T) *apitest.Backend {
	t.Helper()
	backend := apitest.NewBackend()
	t.Cleanup(backend.Close)

	backend.AddUser("anna", "secret123", model.RoleManager)
	t.Setenv(passwordEnv, "secret123")

	backend.AddCar(model.Car{ID: "car-1", Make: "Dacia", Model: "Logan", LicensePlate: "A-123", DailyRate: 25000})
	backend.AddReservation(model.Reservation{
		ID:        "res-1",
		CarID:     "car-1",
		ClientID:  "client-1",
		StartDate: daterange.MustParse("2030-05-01"),
		EndDate:   daterange.MustParse("2030-05-05"),
		Status:    model.ReservationStatusConfirmed,
	})
	// Отменённые не занимают машину
	backend.AddReservation(model.Reservation{
		ID:        "res-2",
		CarID:     "car-1",
		ClientID:  "client-1",
		StartDate: daterange.MustParse("2030-05-10"),
		EndDate:   daterange.MustParse("2030-05-12"),
		Status:    model.ReservationStatusCancelledByClient,
	})
	return backend
}

func TestQuote(t *testing.T) {
	out, err := run(t, "quote", "--rate", "250.50", "--from", "2030-05-01", "--to", "2030-05-05")
	require.NoError(t, err)
	assert.Contains(t, out, "5 day(s) x 250.50 = 1252.50")

	out, err = run(t, "quote", "--rate", "100", "--from", "2030-05-03", "--to", "2030-05-03")
	require.NoError(t, err)
	assert.Contains(t, out, "1 day(s) x 100.00 = 100.00")
}

func TestQuoteRejectsBadInput(t *testing.T) {
	_, err := run(t, "quote", "--rate", "abc", "--from", "2030-05-01", "--to", "2030-05-05")
	assert.Error(t, err)

	_, err = run(t, "quote", "--rate", "-5", "--from", "2030-05-01", "--to", "2030-05-05")
	assert.Error(t, err)

	_, err = run(t, "quote", "--rate", "100", "--from", "2030-05-05", "--to", "2030-05-01")
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = run(t, "quote", "--rate", "100", "--from", "2030-05-01")
	assert.Error(t, err, "--to is required")
}

func TestCheckFreePeriod(t *testing.T) {
	backend := newBackend(t)

	out, err := run(t, "check", "--api", backend.URL(), "--username", "anna",
		"--car", "car-1", "--from", "2030-05-06", "--to", "2030-05-11")
	require.NoError(t, err)
	assert.Contains(t, out, "blocked periods for car car-1: 1")
	assert.Contains(t, out, "2030-05-01 .. 2030-05-05")
	assert.Contains(t, out, "ok: 2030-05-06 .. 2030-05-11 (6 day(s)) is free")
}

func TestCheckConflict(t *testing.T) {
	backend := newBackend(t)

	out, err := run(t, "check", "--api", backend.URL(), "--username", "anna",
		"--car", "car-1", "--from", "2030-05-05", "--to", "2030-05-07")
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.ErrorIs(t, err, reservation.ErrDateConflict)
	assert.Contains(t, out, "conflict with 2030-05-01 .. 2030-05-05")
}

func TestCheckExcludesEditedReservation(t *testing.T) {
	backend := newBackend(t)

	out, err := run(t, "check", "--api", backend.URL(), "--username", "anna",
		"--car", "car-1", "--from", "2030-05-02", "--to", "2030-05-07", "--exclude", "res-1")
	require.NoError(t, err)
	assert.Contains(t, out, "blocked periods for car car-1: 0")

	_, err = run(t, "check", "--api", backend.URL(), "--username", "anna",
		"--car", "car-1", "--from", "2030-05-02", "--to", "2030-05-07", "--exclude", "missing")
	assert.Error(t, err)
}

func TestCheckLoginFailure(t *testing.T) {
	backend := newBackend(t)
	t.Setenv(passwordEnv, "wrong")

	_, err := run(t, "check", "--api", backend.URL(), "--username", "anna",
		"--car", "car-1", "--from", "2030-05-06", "--to", "2030-05-07")
	require.Error(t, err)
	assert.False(t, IsConflict(err))
	assert.Contains(t, err.Error(), "login as \"anna\"")
}

func TestCalendarWritesPNG(t *testing.T) {
	backend := newBackend(t)
	path := filepath.Join(t.TempDir(), "may.png")

	out, err := run(t, "calendar", "--api", backend.URL(), "--username", "anna",
		"--car", "car-1", "--month", "2030-05", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "5 blocked day(s) in 2030-05")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "output must be a PNG file")
}

func TestMigrateRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	_, err := run(t, "migrate", "version", "--dsn", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN is required")
}
