package spoonacular

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a numeric field the provider sends either as a JSON number or as
// a string with a unit suffix such as "25g". Anything unparseable becomes 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*n = Number(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*n = Number(ParseNumeric(str))
		return nil
	}

	*n = 0
	return nil
}

func (n Number) Float64() float64 {
	return float64(n)
}

// Int truncates toward zero and clamps negatives to 0.
func (n Number) Int() int {
	if n < 0 {
		return 0
	}
	return int(n)
}

// ParseNumeric drops every character that is not a digit or '.', then parses
// the longest leading decimal of what remains. "25.5 g" yields 25.5.
func ParseNumeric(s string) float64 {
	var b strings.Builder
	seenDot := false
scan:
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			if seenDot {
				break scan
			}
			seenDot = true
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}
