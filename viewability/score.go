package viewability

import (
	"fmt"
	"math"
	"strconv"

	"github.com/buger/jsonparser"
)

// Score is a viewability result. Unmeasurable and measured-zero are different answers
// and stay distinct on the wire.
type Score struct {
	measurable bool
	percent    float64
}

// NotApplicable is the score of an element which can't be measured. It is sent as "na".
var NotApplicable = Score{}

const notApplicableValue = "na"

// Measured wraps a percentage in view.
func Measured(percent float64) Score {
	return Score{measurable: true, percent: percent}
}

func (s Score) IsMeasurable() bool {
	return s.measurable
}

// Percent is the raw percentage; it is 0 for NotApplicable.
func (s Score) Percent() float64 {
	return s.percent
}

// Rounded is the percentage rounded to the nearest integer, halves rounding up.
func (s Score) Rounded() int64 {
	return int64(math.Floor(s.percent + 0.5))
}

func (s Score) String() string {
	if !s.measurable {
		return notApplicableValue
	}
	return strconv.FormatInt(s.Rounded(), 10)
}

// MarshalJSON writes "na" for unmeasurable scores and the rounded percentage otherwise.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.measurable {
		return []byte(`"` + notApplicableValue + `"`), nil
	}
	return []byte(strconv.FormatInt(s.Rounded(), 10)), nil
}

func (s *Score) UnmarshalJSON(data []byte) error {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return err
	}

	switch dataType {
	case jsonparser.String:
		if string(value) != notApplicableValue {
			return fmt.Errorf("viewability: unexpected score %q", value)
		}
		*s = NotApplicable
	case jsonparser.Number:
		percent, err := strconv.ParseFloat(string(value), 64)
		if err != nil {
			return err
		}
		*s = Measured(percent)
	default:
		return fmt.Errorf("viewability: unexpected score type %s", dataType)
	}
	return nil
}
