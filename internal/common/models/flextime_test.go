package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stamped struct {
	At FlexTime `bson:"at"`
}

func TestFlexTimeDecodesStoredShapes(t *testing.T) {
	want := time.Date(2024, 3, 4, 7, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  time.Time
	}{
		{"datetime", primitive.NewDateTimeFromTime(want), want},
		{"timestamp", primitive.Timestamp{T: uint32(want.Unix())}, want},
		{"epoch millis", want.UnixMilli(), want},
		{"rfc3339 string", "2024-03-04T07:30:00Z", want},
		{"plain date", "2024-03-04", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"null", nil, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(bson.M{"at": tt.value})
			require.NoError(t, err)

			var s stamped
			require.NoError(t, bson.Unmarshal(raw, &s))
			assert.True(t, tt.want.Equal(s.At.Time), "got %s", s.At.Time)
		})
	}
}

func TestFlexTimeJSON(t *testing.T) {
	var v struct {
		A FlexTime `json:"a"`
		B FlexTime `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2024-03-04","b":1709537400000}`), &v))
	assert.Equal(t, "2024-03-04", v.A.Format("2006-01-02"))
	assert.Equal(t, int64(1709537400000), v.B.UnixMilli())

	err := json.Unmarshal([]byte(`{"a":"next tuesday"}`), &v)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFlexTimeStoresAsDatetime(t *testing.T) {
	raw, err := bson.Marshal(stamped{At: NewFlexTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))})
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.IsType(t, primitive.DateTime(0), m["at"])
}

func TestParseTimeInReadsPlainDatesInZone(t *testing.T) {
	edt := time.FixedZone("EDT", -4*60*60)

	day, err := ParseTimeIn("2024-06-10", edt)
	require.NoError(t, err)
	assert.True(t, day.Equal(time.Date(2024, 6, 10, 4, 0, 0, 0, time.UTC)))

	withOffset, err := ParseTimeIn("2024-06-10T08:00:00Z", edt)
	require.NoError(t, err)
	assert.True(t, withOffset.Equal(time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)), "an explicit offset wins")

	assert.True(t, IsDateOnly("2024-06-10"))
	assert.False(t, IsDateOnly("2024-06-10T08:00:00Z"))

	end := EndOfDay(day)
	assert.Equal(t, "2024-06-10 23:59:59.999", end.Format("2006-01-02 15:04:05.000"))
}
