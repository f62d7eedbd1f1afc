package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Numeric compares number columns with all six comparison operators.
type Numeric struct {
	Field
}

func (f *Numeric) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() {
		return &SQLResult{SQL: f.nullClause(cl.Operator)}, nil
	}
	v, err := strconv.ParseFloat(cl.Value, 64)
	if err != nil {
		return &SQLResult{SQL: matchNothing}, nil
	}
	param := uniqueParam(f.QueryField)
	return &SQLResult{
		SQL:    fmt.Sprintf("%s %s @%s", f.QueryField, cl.Operator, param),
		Params: map[string]any{param: v},
	}, nil
}

// Timestamp compares date/time columns against the value as typed, leaving
// parsing to the database.
type Timestamp struct {
	Field
}

func (f *Timestamp) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() {
		return &SQLResult{SQL: f.nullClause(cl.Operator)}, nil
	}
	param := uniqueParam(f.QueryField)
	return &SQLResult{
		SQL:    fmt.Sprintf("%s %s @%s", f.QueryField, cl.Operator, param),
		Params: map[string]any{param: cl.Value},
	}, nil
}

// Duration compares duration columns stored as integer seconds. Values are
// accepted as ISO-8601 short durations ("PT1H30M"), bare h/m/s forms
// ("1h30m") or plain second counts.
type Duration struct {
	Field
}

func (f *Duration) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() {
		return &SQLResult{SQL: f.nullClause(cl.Operator)}, nil
	}
	seconds, ok := parseDurationSeconds(cl.Value)
	if !ok {
		return &SQLResult{SQL: matchNothing}, nil
	}
	return &SQLResult{SQL: fmt.Sprintf("%s::integer %s %d", f.QueryField, cl.Operator, seconds)}, nil
}

// parseDurationSeconds converts a short textual duration to seconds.
func parseDurationSeconds(value string) (int64, bool) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, n >= 0
	}

	s = strings.TrimPrefix(s, "PT")
	var total int64
	var components int
	var num strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num.WriteRune(r)
		case r == 'H' || r == 'M' || r == 'S':
			if num.Len() == 0 {
				return 0, false
			}
			n, err := strconv.ParseInt(num.String(), 10, 64)
			if err != nil {
				return 0, false
			}
			switch r {
			case 'H':
				total += n * 3600
			case 'M':
				total += n * 60
			case 'S':
				total += n
			}
			components++
			num.Reset()
		default:
			return 0, false
		}
	}
	// A bare "PT" with no components is not a duration.
	if num.Len() != 0 || components == 0 {
		return 0, false
	}
	return total, true
}

// TypicalAgeRange matches when the resource's own min/max age interval
// overlaps the requested `min-max` (or single-number) interval.
type TypicalAgeRange struct {
	Field
}

func (f *TypicalAgeRange) ToSQL(_ context.Context, cl *Clause, _ Options) (*SQLResult, error) {
	if cl.NullCheck() {
		if cl.Operator == "<>" {
			return &SQLResult{SQL: "resources.min_age IS NOT NULL OR resources.max_age IS NOT NULL"}, nil
		}
		return &SQLResult{SQL: "resources.min_age IS NULL AND resources.max_age IS NULL"}, nil
	}

	lo, hi, ok := parseAgeRange(cl.Value)
	if !ok {
		return &SQLResult{SQL: matchNothing}, nil
	}
	return &SQLResult{SQL: fmt.Sprintf("(resources.min_age <= %d AND resources.max_age >= %d)", hi, lo)}, nil
}

func parseAgeRange(value string) (lo, hi int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(value), "-", 2)
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	hi = lo
	if len(parts) == 2 {
		if hi, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return 0, 0, false
		}
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, true
}
