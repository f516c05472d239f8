package itinjson

import (
	"encoding/json"
	"fmt"
	"strings"

	"server/internal/domain"
)

// ValidationError aggregates every field-level violation found in a single
// validation pass. The message is meant for operator diagnosis, not machine
// recovery.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "itinerary validation failed: " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrSchemaViolation }

// Validate checks an arbitrary decoded JSON value against the itinerary
// contract and converts it into a typed domain.Itinerary. It is a pure
// function: no I/O, deterministic on its input. Day numbers are not required
// to be unique, contiguous, or start at 1; only presence and integrality are
// enforced.
func Validate(v any) (*domain.Itinerary, error) {
	root, ok := v.(map[string]any)
	if !ok {
		return nil, &ValidationError{Violations: []string{
			fmt.Sprintf("expected top-level object, got %s", typeName(v)),
		}}
	}
	rawDays, ok := root["itinerary"]
	if !ok {
		return nil, &ValidationError{Violations: []string{`missing required key "itinerary"`}}
	}
	seq, ok := rawDays.([]any)
	if !ok {
		return nil, &ValidationError{Violations: []string{
			fmt.Sprintf("itinerary: expected array, got %s", typeName(rawDays)),
		}}
	}

	var violations []string
	out := &domain.Itinerary{Days: make([]domain.DayPlan, 0, len(seq))}
	for i, raw := range seq {
		day, dayViolations := validateDay(fmt.Sprintf("itinerary[%d]", i), raw)
		if len(dayViolations) > 0 {
			violations = append(violations, dayViolations...)
			continue
		}
		out.Days = append(out.Days, day)
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return out, nil
}

func validateDay(path string, raw any) (domain.DayPlan, []string) {
	var plan domain.DayPlan
	obj, ok := raw.(map[string]any)
	if !ok {
		return plan, []string{fmt.Sprintf("%s: expected object, got %s", path, typeName(raw))}
	}

	var violations []string
	if day, errs := requireInt(path+".day", obj, "day"); len(errs) > 0 {
		violations = append(violations, errs...)
	} else {
		plan.Day = day
	}
	if theme, errs := requireString(path+".theme", obj, "theme"); len(errs) > 0 {
		violations = append(violations, errs...)
	} else {
		plan.Theme = theme
	}

	rawActivities, ok := obj["activities"]
	if !ok {
		violations = append(violations, path+".activities: missing required field")
		return plan, violations
	}
	seq, ok := rawActivities.([]any)
	if !ok {
		violations = append(violations, fmt.Sprintf("%s.activities: expected array, got %s", path, typeName(rawActivities)))
		return plan, violations
	}
	plan.Activities = make([]domain.Activity, 0, len(seq))
	for i, rawActivity := range seq {
		activity, errs := validateActivity(fmt.Sprintf("%s.activities[%d]", path, i), rawActivity)
		if len(errs) > 0 {
			violations = append(violations, errs...)
			continue
		}
		plan.Activities = append(plan.Activities, activity)
	}
	return plan, violations
}

func validateActivity(path string, raw any) (domain.Activity, []string) {
	var activity domain.Activity
	obj, ok := raw.(map[string]any)
	if !ok {
		return activity, []string{fmt.Sprintf("%s: expected object, got %s", path, typeName(raw))}
	}

	var violations []string
	if v, errs := requireString(path+".time", obj, "time"); len(errs) > 0 {
		violations = append(violations, errs...)
	} else {
		activity.Time = v
	}
	if v, errs := requireString(path+".description", obj, "description"); len(errs) > 0 {
		violations = append(violations, errs...)
	} else {
		activity.Description = v
	}
	if v, errs := requireString(path+".location", obj, "location"); len(errs) > 0 {
		violations = append(violations, errs...)
	} else {
		activity.Location = v
	}
	return activity, violations
}

func requireString(path string, obj map[string]any, key string) (string, []string) {
	raw, ok := obj[key]
	if !ok {
		return "", []string{path + ": missing required field"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", []string{fmt.Sprintf("%s: expected string, got %s", path, typeName(raw))}
	}
	return s, nil
}

func requireInt(path string, obj map[string]any, key string) (int, []string) {
	raw, ok := obj[key]
	if !ok {
		return 0, []string{path + ": missing required field"}
	}
	switch n := raw.(type) {
	case float64:
		// encoding/json decodes all numbers as float64.
		if n != float64(int(n)) {
			return 0, []string{fmt.Sprintf("%s: expected integer, got fractional number", path)}
		}
		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, []string{fmt.Sprintf("%s: expected integer, got %s", path, n.String())}
		}
		return int(i), nil
	default:
		return 0, []string{fmt.Sprintf("%s: expected integer, got %s", path, typeName(raw))}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, int, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
