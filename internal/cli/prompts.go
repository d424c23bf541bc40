package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/epic-events/crm-system/internal/core/ports"
)

// datetimeLayout is the input format for event dates, day first.
const datetimeLayout = "02-01-2006 15:04"

// clearSentinel is what the operator types to blank an optional field on
// update. An empty answer always means "keep as is".
const clearSentinel = "-"

// prompt reads one trimmed answer. When input is exhausted it flags the
// app so the menu loops terminate instead of spinning on empty reads.
func (a *App) prompt(label string) string {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		a.eof = true
	}
	return strings.TrimSpace(line)
}

// promptOptString reads a tri-state answer for update forms: empty keeps
// the stored value, "-" clears it, anything else replaces it.
func (a *App) promptOptString(label string) ports.Opt[string] {
	answer := a.prompt(label + " (blank = keep, - = clear)")
	switch answer {
	case "":
		return ports.Opt[string]{}
	case clearSentinel:
		return ports.Null[string]()
	default:
		return ports.Some(answer)
	}
}

// promptOptStringCreate reads an optional answer for create forms: empty
// leaves the field unset.
func (a *App) promptOptStringCreate(label string) ports.Opt[string] {
	answer := a.prompt(label + " (optional)")
	if answer == "" {
		return ports.Opt[string]{}
	}
	return ports.Some(answer)
}

// promptOptInt64Create reads an optional id for create forms: empty
// leaves the field unset.
func (a *App) promptOptInt64Create(label string) (ports.Opt[int64], error) {
	answer := a.prompt(label + " (optional)")
	if answer == "" {
		return ports.Opt[int64]{}, nil
	}
	n, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return ports.Opt[int64]{}, fmt.Errorf("%q is not a number", answer)
	}
	return ports.Some(n), nil
}

func (a *App) promptInt64(label string) (int64, error) {
	answer := a.prompt(label)
	n, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", answer)
	}
	return n, nil
}

func (a *App) promptOptInt64(label string) (ports.Opt[int64], error) {
	answer := a.prompt(label + " (blank = keep, - = clear)")
	switch answer {
	case "":
		return ports.Opt[int64]{}, nil
	case clearSentinel:
		return ports.Null[int64](), nil
	}
	n, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return ports.Opt[int64]{}, fmt.Errorf("%q is not a number", answer)
	}
	return ports.Some(n), nil
}

func (a *App) promptInt(label string) (int, error) {
	n, err := a.promptInt64(label)
	return int(n), err
}

func (a *App) promptOptInt(label string) (ports.Opt[int], error) {
	answer := a.prompt(label + " (blank = keep)")
	if answer == "" {
		return ports.Opt[int]{}, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return ports.Opt[int]{}, fmt.Errorf("%q is not a number", answer)
	}
	return ports.Some(n), nil
}

func (a *App) promptFloat(label string) (float64, error) {
	answer := a.prompt(label)
	f, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an amount", answer)
	}
	return f, nil
}

func (a *App) promptOptFloat(label string) (ports.Opt[float64], error) {
	answer := a.prompt(label + " (blank = keep)")
	if answer == "" {
		return ports.Opt[float64]{}, nil
	}
	f, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return ports.Opt[float64]{}, fmt.Errorf("%q is not an amount", answer)
	}
	return ports.Some(f), nil
}

func (a *App) promptBool(label string) (bool, error) {
	answer := strings.ToLower(a.prompt(label + " (y/n)"))
	switch answer {
	case "y", "yes":
		return true, nil
	case "n", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("%q is not y or n", answer)
}

func (a *App) promptOptBool(label string) (ports.Opt[bool], error) {
	answer := strings.ToLower(a.prompt(label + " (y/n, blank = keep)"))
	switch answer {
	case "":
		return ports.Opt[bool]{}, nil
	case "y", "yes":
		return ports.Some(true), nil
	case "n", "no":
		return ports.Some(false), nil
	}
	return ports.Opt[bool]{}, fmt.Errorf("%q is not y or n", answer)
}

func (a *App) promptTime(label string) (time.Time, error) {
	answer := a.prompt(label + " (" + datetimeLayout + ")")
	t, err := time.ParseInLocation(datetimeLayout, answer, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q does not match %s", answer, datetimeLayout)
	}
	return t, nil
}

func (a *App) promptOptTime(label string) (ports.Opt[time.Time], error) {
	answer := a.prompt(label + " (" + datetimeLayout + ", blank = keep)")
	if answer == "" {
		return ports.Opt[time.Time]{}, nil
	}
	t, err := time.ParseInLocation(datetimeLayout, answer, time.Local)
	if err != nil {
		return ports.Opt[time.Time]{}, fmt.Errorf("%q does not match %s", answer, datetimeLayout)
	}
	return ports.Some(t), nil
}
