package common

import (
	"strings"
	"testing"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbackData(screen Screen) []string {
	var out []string
	for _, row := range screen.Keyboard.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.CallbackData)
		}
	}
	return out
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	r := model.Reservation{
		ID:                uuid.NewString(),
		ReservationNumber: "RES-20300501-0001",
		StartDate:         daterange.MustParse("2030-05-01"),
		EndDate:           daterange.MustParse("2030-05-05"),
		Status:            model.ReservationStatusActive,
	}
	car := model.Car{ID: uuid.NewString(), Make: "Toyota", Model: "Yaris", Status: model.CarStatusAvailable}
	client := model.Client{ID: uuid.NewString(), FirstName: "Nadia", LastName: "Tazi"}

	screens := []Screen{
		BuildReservationScreen(r, nil, nil, nil, true),
		BuildStatusScreen(r, reservation.Targets(r.Status, reservation.PolicyPermissive)),
		BuildDeleteReservationScreen(r),
		BuildCarsScreen([]model.Car{car}, 0, true),
		BuildCarScreen(car, "2030-05", true, nil),
		BuildCarStatusScreen(car),
		BuildDeleteCarScreen(car),
		BuildClientsScreen([]model.Client{client}, 0, ""),
		BuildClientScreen(client, true, nil),
		BuildDeleteClientScreen(client),
		BuildManagersScreen([]model.Manager{{ID: uuid.NewString(), Username: "amina"}}),
	}

	for _, screen := range screens {
		for _, data := range callbackData(screen) {
			assert.LessOrEqual(t, len(data), 64, data)
		}
	}
}

func TestBuildStatusScreenIndexesTargets(t *testing.T) {
	r := model.Reservation{ID: "r1", ReservationNumber: "RES-1", Status: model.ReservationStatusConfirmed}
	targets := []model.ReservationStatus{model.ReservationStatusActive, model.ReservationStatusCancelledByAgency}

	data := callbackData(BuildStatusScreen(r, targets))
	assert.Equal(t, []string{"res_st:r1:0", "res_st:r1:1", "res_view:r1"}, data)
}

func TestBuildMainMenuScreenByRole(t *testing.T) {
	manager := BuildMainMenuScreen(&model.User{Username: "amina", Role: model.RoleManager})
	admin := BuildMainMenuScreen(&model.User{Username: "root", FullName: "Root", Role: model.RoleAdmin})

	assert.NotContains(t, callbackData(manager), ManagersList)
	assert.Contains(t, callbackData(admin), ManagersList)
	assert.Contains(t, admin.Text, "Root (администратор)")
}

func TestBuildReservationsScreenPaginates(t *testing.T) {
	list := make([]model.Reservation, 10)
	for i := range list {
		list[i] = model.Reservation{ID: string(rune('a' + i)), ReservationNumber: "RES", Status: model.ReservationStatusConfirmed}
	}

	screen := BuildReservationsScreen(list, 1)
	data := callbackData(screen)

	views := 0
	for _, d := range data {
		if strings.HasPrefix(d, ReservationView) {
			views++
		}
	}
	assert.Equal(t, 2, views)
	assert.Contains(t, data, "res_page:0")
	assert.Contains(t, screen.Text, "10 бронирований")

	empty := BuildReservationsScreen(nil, 0)
	require.NotNil(t, empty.Keyboard)
	assert.Contains(t, empty.Text, "Бронирований пока нет")
}

func TestCarScreensByRole(t *testing.T) {
	car := model.Car{ID: "c1", Make: "Toyota", Model: "Yaris", LicensePlate: "WW-1", Status: model.CarStatusRented, DailyRate: 35000}

	manager := callbackData(BuildCarScreen(car, "2030-05", false, nil))
	assert.Equal(t, []string{"car_cal:c1:2030-05", "cars_page:0"}, manager)

	admin := callbackData(BuildCarScreen(car, "2030-05", true, nil))
	assert.Contains(t, admin, "car_edit:c1")
	assert.Contains(t, admin, "car_statuses:c1")
	assert.Contains(t, admin, "car_delete:c1")

	assert.NotContains(t, callbackData(BuildCarsScreen([]model.Car{car}, 0, false)), CarAdd)
	assert.Contains(t, callbackData(BuildCarsScreen([]model.Car{car}, 0, true)), CarAdd)
	assert.Contains(t, callbackData(BuildCarsScreen(nil, 0, true)), CarAdd)
}

func TestBuildCarStatusScreenIndexesStatuses(t *testing.T) {
	car := model.Car{ID: "c1", Make: "Toyota", Model: "Yaris", Status: model.CarStatusMaintenance}

	screen := BuildCarStatusScreen(car)
	assert.Equal(t, []string{"car_st:c1:0", "car_st:c1:1", "car_st:c1:2", "car_st:c1:3", "car_view:c1"}, callbackData(screen))
	assert.Equal(t, "• 🛠 На обслуживании", screen.Keyboard.InlineKeyboard[2][0].Text)
}

func TestClientScreens(t *testing.T) {
	client := model.Client{ID: "k1", FirstName: "Nadia", LastName: "Tazi", Email: "nadia@example.com"}

	list := callbackData(BuildClientsScreen([]model.Client{client}, 0, ""))
	assert.Contains(t, list, "client_view:k1")
	assert.Contains(t, list, ClientAdd)

	assert.Equal(t, []string{"client_edit:k1", "clients_page:0"}, callbackData(BuildClientScreen(client, false, nil)))
	assert.Contains(t, callbackData(BuildClientScreen(client, true, nil)), "client_delete:k1")

	confirm := BuildDeleteClientScreen(client)
	assert.Contains(t, confirm.Text, "Nadia Tazi")
	assert.Equal(t, []string{"client_delete_ok:k1", "client_view:k1"}, callbackData(confirm))
}
