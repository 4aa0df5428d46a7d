package state

import (
	"testing"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/stretchr/testify/assert"
)

func TestManagerDialogLifecycle(t *testing.T) {
	sm := NewManager()
	const tg = int64(42)

	assert.Equal(t, StateNone, sm.GetState(tg))

	sm.SetState(tg, StateLoginUsername)
	sm.SetData(tg, KeyUsername, "anna")
	sm.SetState(tg, StateLoginPassword)

	assert.Equal(t, StateLoginPassword, sm.GetState(tg))
	username, ok := sm.GetString(tg, KeyUsername)
	assert.True(t, ok)
	assert.Equal(t, "anna", username)

	sm.SetState(tg, StateNone)
	_, ok = sm.GetData(tg, KeyUsername)
	assert.False(t, ok, "StateNone drops dialog data")
}

func TestManagerStartReplacesData(t *testing.T) {
	sm := NewManager()
	const tg = int64(7)

	sm.Start(tg, StateBookClientSearch, map[string]interface{}{KeyCarID: "car-1"})
	sm.SetData(tg, KeyClientID, "client-1")

	data := map[string]interface{}{KeyReservationID: "res-1"}
	sm.Start(tg, StateEditDates, data)
	data[KeyReservationID] = "changed"

	all := sm.GetAllData(tg)
	assert.Equal(t, map[string]interface{}{KeyReservationID: "res-1"}, all)
	assert.Equal(t, StateEditDates, sm.GetState(tg))

	_, ok := sm.GetString(tg, KeyCarID)
	assert.False(t, ok)
}

func TestManagerGetStringWrongType(t *testing.T) {
	sm := NewManager()
	sm.SetData(1, KeyAmountPaid, 100)

	_, ok := sm.GetString(1, KeyAmountPaid)
	assert.False(t, ok)
}

func TestAdapter(t *testing.T) {
	sm := NewManager()
	var a callbacktypes.StateManager = NewAdapter(sm)

	a.Start(5, callbacktypes.UserState(StateCompleteReturnTime), map[string]interface{}{KeyReservationID: "r"})
	assert.Equal(t, StateCompleteReturnTime, sm.GetState(5))

	a.ClearState(5)
	assert.Nil(t, a.GetAllData(5))
}
