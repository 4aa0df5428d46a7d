package localstate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     string
	Status string
}

func TestReplaceAndItems(t *testing.T) {
	l := New[item]()
	assert.False(t, l.Loaded())

	src := []item{{ID: "1", Status: "pending"}}
	require.True(t, l.Replace(l.Generation(), src))
	assert.True(t, l.Loaded())

	// Изменение исходного среза не должно влиять на список
	src[0].Status = "changed"
	assert.Equal(t, "pending", l.Items()[0].Status)

	got := l.Items()
	got[0].Status = "changed"
	assert.Equal(t, "pending", l.Items()[0].Status)
}

func TestReplaceAfterResetIsDropped(t *testing.T) {
	l := New[item]()
	gen := l.Generation()

	l.Reset()

	assert.False(t, l.Replace(gen, []item{{ID: "late"}}))
	assert.Empty(t, l.Items())
	assert.False(t, l.Loaded())
}

func TestMutateCommitSuccess(t *testing.T) {
	l := New[item]()
	l.Replace(l.Generation(), []item{{ID: "1", Status: "pending"}, {ID: "2", Status: "pending"}})

	var seenDuringCommit []item
	err := l.Mutate(context.Background(),
		func(items []item) []item {
			items[0].Status = "confirmed"
			return items
		},
		func(ctx context.Context) error {
			seenDuringCommit = l.Items()
			return nil
		},
	)
	require.NoError(t, err)

	assert.Equal(t, "confirmed", seenDuringCommit[0].Status, "optimistic change is visible before commit returns")
	assert.Equal(t, "confirmed", l.Items()[0].Status)
}

func TestMutateRestoresOnFailure(t *testing.T) {
	l := New[item]()
	l.Replace(l.Generation(), []item{{ID: "1", Status: "pending"}, {ID: "2", Status: "confirmed"}})
	before := l.Items()

	rejected := errors.New("rejected")
	err := l.Mutate(context.Background(),
		func(items []item) []item {
			return items[1:]
		},
		func(ctx context.Context) error {
			return rejected
		},
	)

	assert.ErrorIs(t, err, rejected)
	assert.Equal(t, before, l.Items())
}

func TestMutateFailureAfterResetKeepsReset(t *testing.T) {
	l := New[item]()
	l.Replace(l.Generation(), []item{{ID: "1"}})

	err := l.Mutate(context.Background(),
		func(items []item) []item { return nil },
		func(ctx context.Context) error {
			l.Reset()
			return errors.New("network")
		},
	)

	require.Error(t, err)
	assert.Empty(t, l.Items())
}

func TestFind(t *testing.T) {
	l := New[item]()
	l.Replace(l.Generation(), []item{{ID: "1"}, {ID: "2", Status: "active"}})

	got, ok := l.Find(func(i item) bool { return i.ID == "2" })
	require.True(t, ok)
	assert.Equal(t, "active", got.Status)

	_, ok = l.Find(func(i item) bool { return i.ID == "3" })
	assert.False(t, ok)
}
