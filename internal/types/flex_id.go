package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID is a row id that can be unmarshaled from either a JSON number or a JSON string.
// HTML form values arrive as strings, so reference ids such as courseId accept both.
type FlexID uint

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	// Try unmarshaling as a number first
	var n uint
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexID(n)
		return nil
	}

	// Try unmarshaling as a string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		val, err := strconv.ParseUint(s, 10, 0)
		if err != nil {
			return fmt.Errorf("FlexID: invalid id string %q: %w", s, err)
		}
		*f = FlexID(val)
		return nil
	}

	return fmt.Errorf("FlexID: unexpected type, expected number or string")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint(f))
}

// Uint converts FlexID back to uint.
func (f FlexID) Uint() uint {
	return uint(f)
}

// Ptr returns the id as a *uint, mapping the zero id to nil.
func (f *FlexID) Ptr() *uint {
	if f == nil || *f == 0 {
		return nil
	}
	v := uint(*f)
	return &v
}
