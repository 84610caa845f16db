package dtos

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// TrackedField names a PIREP column whose changes are recorded in the audit trail.
type TrackedField string

const (
	FieldFlightNumber  TrackedField = "flight_number"
	FieldDepartureIcao TrackedField = "departure_icao"
	FieldArrivalIcao   TrackedField = "arrival_icao"
	FieldFlightTime    TrackedField = "flight_time"
	FieldCargo         TrackedField = "cargo"
	FieldFuelBurned    TrackedField = "fuel_burned"
	FieldMultiplierID  TrackedField = "multiplier_id"
	FieldAircraftID    TrackedField = "aircraft_id"
	FieldComments      TrackedField = "comments"
	FieldDeniedReason  TrackedField = "denied_reason"
)

// FieldKind describes how a tracked field's value is encoded.
type FieldKind int

const (
	FieldKindString FieldKind = iota
	FieldKindInt
	FieldKindOptionalString
)

// TrackedFields lists every tracked field in display order.
var TrackedFields = []TrackedField{
	FieldFlightNumber,
	FieldDepartureIcao,
	FieldArrivalIcao,
	FieldFlightTime,
	FieldCargo,
	FieldFuelBurned,
	FieldMultiplierID,
	FieldAircraftID,
	FieldComments,
	FieldDeniedReason,
}

var trackedFieldKinds = map[TrackedField]FieldKind{
	FieldFlightNumber:  FieldKindString,
	FieldDepartureIcao: FieldKindString,
	FieldArrivalIcao:   FieldKindString,
	FieldFlightTime:    FieldKindInt,
	FieldCargo:         FieldKindInt,
	FieldFuelBurned:    FieldKindInt,
	FieldMultiplierID:  FieldKindOptionalString,
	FieldAircraftID:    FieldKindString,
	FieldComments:      FieldKindOptionalString,
	FieldDeniedReason:  FieldKindOptionalString,
}

var trackedFieldOrder = func() map[TrackedField]int {
	order := make(map[TrackedField]int, len(TrackedFields))
	for i, f := range TrackedFields {
		order[f] = i
	}
	return order
}()

// Kind returns the value kind of a tracked field.
func (f TrackedField) Kind() (FieldKind, bool) {
	kind, ok := trackedFieldKinds[f]
	return kind, ok
}

// FieldDiffVersion is written with every encoded diff.
const FieldDiffVersion = 1

// FieldDiff holds the values of the fields touched by one mutation.
// Values are string, int64, or nil (optional strings that are unset).
type FieldDiff struct {
	Version int                          `json:"v"`
	Fields  map[TrackedField]interface{} `json:"fields"`
}

// NewFieldDiff returns an empty diff at the current version.
func NewFieldDiff() FieldDiff {
	return FieldDiff{Version: FieldDiffVersion, Fields: map[TrackedField]interface{}{}}
}

func (d *FieldDiff) ensure() {
	if d.Fields == nil {
		d.Fields = map[TrackedField]interface{}{}
	}
	if d.Version == 0 {
		d.Version = FieldDiffVersion
	}
}

func (d *FieldDiff) SetString(field TrackedField, value string) {
	d.ensure()
	d.Fields[field] = value
}

func (d *FieldDiff) SetInt(field TrackedField, value int) {
	d.ensure()
	d.Fields[field] = int64(value)
}

// SetOptionalString records nil for an unset value.
func (d *FieldDiff) SetOptionalString(field TrackedField, value *string) {
	d.ensure()
	if value == nil {
		d.Fields[field] = nil
		return
	}
	d.Fields[field] = *value
}

// Has reports whether the field is present in the diff.
func (d FieldDiff) Has(field TrackedField) bool {
	_, ok := d.Fields[field]
	return ok
}

func (d FieldDiff) Len() int { return len(d.Fields) }

// Keys returns the fields present, in display order.
func (d FieldDiff) Keys() []TrackedField {
	keys := make([]TrackedField, 0, len(d.Fields))
	for k := range d.Fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return trackedFieldOrder[keys[i]] < trackedFieldOrder[keys[j]] })
	return keys
}

// Encode produces a stable JSON form (encoding/json sorts map keys).
func (d FieldDiff) Encode() ([]byte, error) {
	d.ensure()
	for field := range d.Fields {
		if _, ok := field.Kind(); !ok {
			return nil, fmt.Errorf("field diff: unknown field %q", field)
		}
	}
	return json.Marshal(d)
}

// DecodeFieldDiff parses an encoded diff, rejecting unknown versions, unknown fields and
// values that do not match the field kind. Empty input decodes to an empty diff.
func DecodeFieldDiff(data []byte) (FieldDiff, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewFieldDiff(), nil
	}

	var raw struct {
		Version int                        `json:"v"`
		Fields  map[string]json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return FieldDiff{}, fmt.Errorf("field diff: %w", err)
	}
	if raw.Version != FieldDiffVersion {
		return FieldDiff{}, fmt.Errorf("field diff: unsupported version %d", raw.Version)
	}

	diff := NewFieldDiff()
	for name, value := range raw.Fields {
		field := TrackedField(name)
		kind, ok := field.Kind()
		if !ok {
			return FieldDiff{}, fmt.Errorf("field diff: unknown field %q", name)
		}
		decoded, err := decodeFieldValue(kind, value)
		if err != nil {
			return FieldDiff{}, fmt.Errorf("field diff: %s: %w", name, err)
		}
		diff.Fields[field] = decoded
	}
	return diff, nil
}

func decodeFieldValue(kind FieldKind, value json.RawMessage) (interface{}, error) {
	isNull := bytes.Equal(bytes.TrimSpace(value), []byte("null"))

	switch kind {
	case FieldKindInt:
		if isNull {
			return nil, fmt.Errorf("null is not allowed")
		}
		var n json.Number
		dec := json.NewDecoder(bytes.NewReader(value))
		dec.UseNumber()
		if err := dec.Decode(&n); err != nil {
			return nil, err
		}
		return n.Int64()
	case FieldKindString, FieldKindOptionalString:
		if isNull {
			if kind == FieldKindString {
				return nil, fmt.Errorf("null is not allowed")
			}
			return nil, nil
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown kind %d", kind)
}

// Value implements the driver.Valuer interface
func (d FieldDiff) Value() (driver.Value, error) {
	data, err := d.Encode()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (d *FieldDiff) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*d = NewFieldDiff()
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("FieldDiff: cannot scan type %T", src)
	}

	decoded, err := DecodeFieldDiff(data)
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}
