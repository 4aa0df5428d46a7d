package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandlers() *Handlers {
	return NewHandlers(nil, nil, nil, nil, nil, state.NewManager(), zap.NewNop())
}

func TestParseAmount(t *testing.T) {
	m, err := parseAmount("1 250,50")
	require.NoError(t, err)
	assert.Equal(t, model.Money(125050), m)

	_, err = parseAmount("много")
	assert.ErrorIs(t, err, common.ErrBadAmount)
	assert.True(t, common.IsInputError(err))
}

func TestOptionalInput(t *testing.T) {
	assert.Equal(t, "", optionalText(" - "))
	assert.Equal(t, "рейс AT800", optionalText(" рейс AT800 "))

	assert.True(t, isSkip("0"))
	assert.True(t, isSkip("-"))
	assert.False(t, isSkip("100"))

	assert.True(t, tooShort("ab", 3))
	assert.False(t, tooLong("привет", 6), "length is counted in characters")
}

func TestCompletionChange(t *testing.T) {
	h := newTestHandlers()
	const tg int64 = 42

	returned := time.Date(2030, time.May, 5, 18, 30, 0, 0, time.UTC)
	h.stateManager.Start(tg, state.StateCompleteNotes, map[string]interface{}{
		state.KeyReservationID: "r1",
		state.KeyReturnTime:    returned.Format(time.RFC3339),
		state.KeyCharges:       "150.00",
		state.KeyAmountPaid:    "",
	})

	change, id, err := h.completionChange(tg, "без повреждений")
	require.NoError(t, err)
	assert.Equal(t, "r1", id)
	assert.Equal(t, model.ReservationStatusCompleted, change.Status)
	require.NotNil(t, change.ActualReturnTime)
	assert.True(t, returned.Equal(*change.ActualReturnTime))
	assert.Equal(t, model.Money(15000), change.AdditionalCharges)
	assert.Nil(t, change.AmountPaid, "empty paid keeps the current payment")
	assert.Equal(t, "без повреждений", change.CompletionNotes)

	h.stateManager.SetData(tg, state.KeyAmountPaid, "1400.00")
	change, _, err = h.completionChange(tg, "")
	require.NoError(t, err)
	require.NotNil(t, change.AmountPaid)
	assert.Equal(t, model.Money(140000), *change.AmountPaid)
}

func TestCompletionChangeExpired(t *testing.T) {
	h := newTestHandlers()

	_, _, err := h.completionChange(7, "")
	assert.Error(t, err)
}

func TestDialogAmount(t *testing.T) {
	h := newTestHandlers()
	h.stateManager.Start(1, state.StateCompletePaid, map[string]interface{}{state.KeyCharges: "0.00"})

	m, ok := h.dialogAmount(1, state.KeyCharges)
	assert.True(t, ok)
	assert.Equal(t, model.Money(0), m)

	_, ok = h.dialogAmount(1, state.KeyAmountPaid)
	assert.False(t, ok)
}
