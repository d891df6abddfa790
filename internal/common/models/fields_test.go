package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFieldsKeepKeyOrder(t *testing.T) {
	var f Fields
	require.NoError(t, json.Unmarshal([]byte(`{"remarks":"x","crew":"B","shift":null}`), &f))

	assert.Equal(t, Fields{
		{Name: "remarks", Value: "x"},
		{Name: "crew", Value: "B"},
		{Name: "shift", Value: nil},
	}, f)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"remarks":"x","crew":"B","shift":null}`, string(out))
}

func TestFieldsRejectBadBodies(t *testing.T) {
	for _, body := range []string{`{"a":1,"a":2}`, `[1,2]`, `"text"`} {
		var f Fields
		err := json.Unmarshal([]byte(body), &f)
		assert.ErrorIs(t, err, ErrInvalidInput, body)
	}
}

func TestFieldsSet(t *testing.T) {
	f := Fields{{Name: "a", Value: 1}}
	f = f.Set("a", 2).Set("b", 3)

	assert.Equal(t, Fields{{Name: "a", Value: 2}, {Name: "b", Value: 3}}, f)
	v, ok := f.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestDiff(t *testing.T) {
	when := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	prior := map[string]any{
		"crew":  "A",
		"shift": "Morning",
		"date":  primitive.NewDateTimeFromTime(when),
	}

	changes := Diff(prior, Fields{
		{Name: "crew", Value: "B"},
		{Name: "shift", Value: "Morning"},
		{Name: "remarks", Value: "x"},
		{Name: "date", Value: when},
		{Name: "location", Value: nil},
	})

	assert.Equal(t, []Change{
		{Field: "crew", OldValue: "A", NewValue: "B"},
		{Field: "remarks", OldValue: nil, NewValue: "x"},
	}, changes)
}

func TestApplyDoesNotTouchPrior(t *testing.T) {
	prior := map[string]any{"a": 1}
	merged := Apply(prior, Fields{{Name: "a", Value: 2}, {Name: "b", Value: 3}})

	assert.Equal(t, map[string]any{"a": 1}, prior)
	assert.Equal(t, map[string]any{"a": 2, "b": 3}, merged)
}
