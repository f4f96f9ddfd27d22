package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/daliaibrahim58/greenmart/app/models"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want models.OrderStatus
		ok   bool
	}{
		{"pending", models.StatusPending, true},
		{"Pending", models.StatusPending, true},
		{"DELIVERED", models.StatusDelivered, true},
		{"cancelled", models.StatusCancelled, true},
		{"canceled", models.StatusCancelled, true},
		{"shipped", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := models.ParseStatus(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestCanTransition(t *testing.T) {
	// Every reachable pair. Terminal states allow nothing.
	allowed := map[models.OrderStatus][]models.OrderStatus{
		models.StatusPending: {models.StatusPending, models.StatusDelivered, models.StatusCancelled},
	}
	all := []models.OrderStatus{models.StatusPending, models.StatusDelivered, models.StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, models.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionEffect(t *testing.T) {
	effect, ok := models.TransitionEffect(models.StatusPending, models.StatusPending)
	assert.True(t, ok)
	assert.Equal(t, models.EffectDecrement, effect)

	effect, ok = models.TransitionEffect(models.StatusPending, models.StatusDelivered)
	assert.True(t, ok)
	assert.Equal(t, models.EffectNone, effect)

	effect, ok = models.TransitionEffect(models.StatusPending, models.StatusCancelled)
	assert.True(t, ok)
	assert.Equal(t, models.EffectRestore, effect)

	_, ok = models.TransitionEffect(models.StatusDelivered, models.StatusPending)
	assert.False(t, ok)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, models.StatusPending.IsTerminal())
	assert.True(t, models.StatusDelivered.IsTerminal())
	assert.True(t, models.StatusCancelled.IsTerminal())
}

func TestOrderDate(t *testing.T) {
	at := time.Date(2026, 3, 14, 23, 30, 0, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "2026-03-14", models.OrderDate(at))
}
