package recency

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Unit is the time unit of an age string.
type Unit int

const (
	Minutes Unit = iota
	Hours
	Days
)

func (u Unit) String() string {
	switch u {
	case Minutes:
		return "minutes"
	case Hours:
		return "hours"
	case Days:
		return "days"
	default:
		return "unknown"
	}
}

// unitTokens is the complete set of accepted unit spellings. Tokens outside
// this set ("mo", "w", "y") are rejected rather than guessed at.
var unitTokens = map[string]Unit{
	"m":       Minutes,
	"min":     Minutes,
	"mins":    Minutes,
	"minute":  Minutes,
	"minutes": Minutes,
	"h":       Hours,
	"hr":      Hours,
	"hrs":     Hours,
	"hour":    Hours,
	"hours":   Hours,
	"d":       Days,
	"day":     Days,
	"days":    Days,
}

// ErrInvalidAge is returned when an age string does not match the grammar.
var ErrInvalidAge = errors.New("invalid age")

// Age is a parsed age string: a whole quantity of one unit.
type Age struct {
	Quantity int
	Unit     Unit
}

// ParseAge parses strings of the form "<quantity><unit>", e.g. "3h", "45m",
// "2 days". Surrounding whitespace is ignored; anything else fails.
func ParseAge(s string) (Age, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Age{}, fmt.Errorf("%w: empty", ErrInvalidAge)
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Age{}, fmt.Errorf("%w: %q has no quantity", ErrInvalidAge, s)
	}
	qty, err := strconv.Atoi(s[:i])
	if err != nil {
		return Age{}, fmt.Errorf("%w: %q: %v", ErrInvalidAge, s, err)
	}

	token := strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	unit, ok := unitTokens[token]
	if !ok {
		return Age{}, fmt.Errorf("%w: %q has unknown unit %q", ErrInvalidAge, s, token)
	}
	if int64(qty) > math.MaxInt64/int64(unit.duration()) {
		return Age{}, fmt.Errorf("%w: %q is out of range", ErrInvalidAge, s)
	}
	return Age{Quantity: qty, Unit: unit}, nil
}

func (u Unit) duration() time.Duration {
	switch u {
	case Minutes:
		return time.Minute
	case Hours:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// Duration converts the age into a time.Duration.
func (a Age) Duration() time.Duration {
	return time.Duration(a.Quantity) * a.Unit.duration()
}

func (a Age) String() string {
	return fmt.Sprintf("%d %s", a.Quantity, a.Unit)
}
