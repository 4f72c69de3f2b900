package schema

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Coerce converts value to the declared type of field on kind. Fields the
// kind does not declare are returned unchanged. Returns types.ErrInvalidValue
// when the value cannot be represented in the declared type.
func (r *Registry) Coerce(kind, field string, value any) (any, error) {
	var (
		out any
		err error
	)
	switch ft := r.FieldType(kind, field); ft {
	case String:
		out, err = cast.ToStringE(value)
	case Int:
		out, err = toInt(value)
	case Float:
		out, err = toFloat(value)
	case List:
		out, err = cast.ToStringSliceE(value)
	case Timestamp:
		out, err = toTime(value)
	default:
		return value, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s.%s: %v", types.ErrInvalidValue, kind, field, err)
	}
	return out, nil
}

// Assign coerces every value to its declared type and writes the result onto
// e. Undeclared names go to e's extra attribute bag. Nothing is written when
// any value fails to coerce.
func (r *Registry) Assign(e types.Entity, values map[string]any) error {
	coerced := make(map[string]any, len(values))
	for field, v := range values {
		out, err := r.Coerce(e.Kind(), field, v)
		if err != nil {
			return err
		}
		coerced[field] = out
	}
	return decodeInto(e, coerced)
}

// Decode builds a fresh entity of the given kind from a persisted record.
// The kind tag field, if present, is ignored; timestamps are parsed from
// types.TimeLayout strings and every other field is assigned as stored.
// Returns types.ErrUnknownKind if kind is not registered.
func (r *Registry) Decode(kind string, record map[string]any) (types.Entity, error) {
	ctor, err := r.Resolve(kind)
	if err != nil {
		return nil, err
	}

	data := maps.Clone(record)
	delete(data, types.ClassField)

	e := ctor()
	if err := decodeInto(e, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrInvalidRecord, kind, err)
	}
	return e, nil
}

// decodeInto writes data onto the struct behind e. Field names match
// exactly; unmatched names are collected in BaseModel.Extra.
func decodeInto(e types.Entity, data map[string]any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(types.TimeParseLayout),
		MatchName:  func(mapKey, fieldName string) bool { return mapKey == fieldName },
		Result:     e,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

func toTime(value any) (time.Time, error) {
	if s, ok := value.(string); ok {
		if t, err := time.Parse(types.TimeParseLayout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return cast.ToTimeE(value)
}

// toInt reads strings as base-10 integers; cast would honour 0, 0x and 0b
// prefixes.
func toInt(value any) (int, error) {
	if s, ok := value.(string); ok {
		return strconv.Atoi(strings.TrimSpace(s))
	}
	return cast.ToIntE(value)
}

// toFloat reads strings as decimal floats only.
func toFloat(value any) (float64, error) {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if strings.ContainsAny(s, "xX_") {
			return 0, fmt.Errorf("not a decimal number: %q", s)
		}
		return strconv.ParseFloat(s, 64)
	}
	return cast.ToFloat64E(value)
}
