package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type FieldKind int

const (
	KindString FieldKind = iota
	KindEnum
	KindDate
)

// FieldRule describes one updatable field.
type FieldRule struct {
	Kind     FieldKind
	Enum     []string
	Required bool // string must be non-blank, date must be present
}

// Schema lists the fields a partial update may touch. Anything else is
// rejected.
type Schema map[string]FieldRule

// Normalize validates patch and converts values to their stored form:
// strings are trimmed and dates become time.Time. Key order is kept.
func (s Schema) Normalize(patch Fields) (Fields, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	out := make(Fields, 0, len(patch))
	for _, field := range patch {
		rule, ok := s[field.Name]
		if !ok {
			return nil, fmt.Errorf("%w: field %q cannot be updated", ErrInvalidInput, field.Name)
		}
		value, err := rule.normalize(field.Name, field.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Field{Name: field.Name, Value: value})
	}
	return out, nil
}

func (r FieldRule) normalize(name string, value any) (any, error) {
	if value == nil {
		if r.Required {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
		}
		return nil, nil
	}

	switch r.Kind {
	case KindDate:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case FlexTime:
			return v.Time, nil
		case string:
			if strings.TrimSpace(v) == "" && !r.Required {
				return nil, nil
			}
			return ParseTime(v)
		case float64:
			return time.UnixMilli(int64(v)).UTC(), nil
		}
		return nil, fmt.Errorf("%w: %s must be a date", ErrInvalidInput, name)
	}

	str, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidInput, name)
	}
	str = strings.TrimSpace(str)
	if r.Required && str == "" {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	if r.Kind == KindEnum {
		if err := CheckEnum(name, str, r.Enum); err != nil {
			return nil, err
		}
	}
	return str, nil
}

// CheckEnum reports ErrInvalidInput unless value is one of allowed.
func CheckEnum(name, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("%w: %s must be one of %s", ErrInvalidInput, name, strings.Join(allowed, ", "))
	}
	return nil
}
