package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexibleText is a text field that also accepts JSON booleans and numbers,
// storing their literal form ("true", "7").
type FlexibleText string

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexibleText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = FlexibleText(s)
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return fmt.Errorf("invalid text value %s", data)
		}
		*t = FlexibleText(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected a string, boolean or number, got %s", data)
		}
		*t = FlexibleText(n.String())
	}
	return nil
}

// String returns the text value.
func (t FlexibleText) String() string {
	return string(t)
}

func (t *FlexibleText) ptr() *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}
