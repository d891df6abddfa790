package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateOnlyLayout,
}

// FlexTime is a time.Time that decodes from whatever shape a date was stored
// in: BSON datetime, BSON timestamp, epoch millis, or a date string.
type FlexTime struct {
	time.Time
}

func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{Time: t}
}

const dateOnlyLayout = "2006-01-02"

// dateLocation is the zone for values that carry no offset, such as a
// plain due date.
var dateLocation = time.UTC

// SetLocation sets the zone that dates without an offset are read in.
func SetLocation(loc *time.Location) {
	if loc != nil {
		dateLocation = loc
	}
}

// ParseTime accepts RFC3339 timestamps and plain dates. Values without an
// offset are read in the zone set by SetLocation.
func ParseTime(s string) (time.Time, error) {
	return ParseTimeIn(s, dateLocation)
}

// ParseTimeIn is ParseTime with an explicit zone for values without an
// offset.
func ParseTimeIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", ErrInvalidInput, s)
}

// EndOfDay returns the last millisecond of t's calendar day in t's zone.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// IsDateOnly reports whether s is a plain YYYY-MM-DD date.
func IsDateOnly(s string) bool {
	_, err := time.Parse(dateOnlyLayout, strings.TrimSpace(s))
	return err == nil
}

func (t FlexTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(t.Time)
}

func (t *FlexTime) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: typ, Value: data}
	switch typ {
	case bsontype.Null, bsontype.Undefined:
		t.Time = time.Time{}
		return nil
	case bsontype.DateTime:
		ms, _ := rv.DateTimeOK()
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	case bsontype.Timestamp:
		sec, _, _ := rv.TimestampOK()
		t.Time = time.Unix(int64(sec), 0).UTC()
		return nil
	case bsontype.Int64:
		ms, _ := rv.Int64OK()
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	case bsontype.String:
		s, _ := rv.StringValueOK()
		parsed, err := ParseTime(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot decode %s into a time", typ)
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var ms int64
		if err := json.Unmarshal(data, &ms); err != nil {
			return fmt.Errorf("%w: date must be a string or epoch millis", ErrInvalidInput)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
