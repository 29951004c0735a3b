// Package prompt implements the interactive input collaborators: a
// single-choice selection menu and a ranged numeric input. Both loop
// until they get valid input.
package prompt

import (
	"fmt"
	"strconv"
	"strings"
)

// Option is one selectable menu entry.
type Option struct {
	Key   string
	Label string
}

// Prompter is what the checkup engine talks to; tests substitute a
// scripted implementation.
type Prompter interface {
	// SelectOne shows desc (when non-empty) and the options, returning
	// the chosen key. defaultKey is preselected and also the result of
	// an empty confirmation.
	SelectOne(desc string, options []Option, defaultKey string) (string, error)
	// NumberInRange reads a number within [min, max]. An empty input
	// returns def when hasDefault is set. allowFloat permits
	// fractional values.
	NumberInRange(desc string, min, max float64, def float64, hasDefault, allowFloat bool) (float64, error)
	// Text reads one line, falling back to def on empty input.
	Text(desc, def string) (string, error)
}

// parseNumber validates one line of numeric input against the range.
func parseNumber(raw string, min, max float64, def float64, hasDefault, allowFloat bool) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if hasDefault {
			return def, nil
		}
		return 0, fmt.Errorf("a value is required")
	}

	kind := "integer"
	if allowFloat {
		kind = "number"
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("please insert a valid %s", kind)
	}
	if !allowFloat && v != float64(int64(v)) {
		return 0, fmt.Errorf("please insert a whole %s", kind)
	}
	if v < min {
		return 0, fmt.Errorf("please insert a %s greater or equal to %g", kind, min)
	}
	if v > max {
		return 0, fmt.Errorf("the maximum value is %g, please insert a valid %s", max, kind)
	}
	return v, nil
}

func findOption(options []Option, key string) int {
	for i, o := range options {
		if o.Key == key {
			return i
		}
	}
	return -1
}
