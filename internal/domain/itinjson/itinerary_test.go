package itinjson

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"server/internal/domain"
)

func decodeAny(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("test fixture is not valid JSON: %v", err)
	}
	return v
}

func TestValidateAcceptsWellFormedItinerary(t *testing.T) {
	v := decodeAny(t, `{
		"itinerary": [
			{
				"day": 1,
				"theme": "Historic Center",
				"activities": [
					{"time": "09:00", "description": "Walk the old town", "location": "Plaza Mayor"},
					{"time": "afternoon", "description": "Museum visit", "location": "Prado"}
				]
			},
			{
				"day": 2,
				"theme": "Rest day",
				"activities": []
			}
		]
	}`)

	it, err := Validate(v)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if len(it.Days) != 2 {
		t.Fatalf("Days = %d, want 2", len(it.Days))
	}
	if it.Days[0].Day != 1 || it.Days[0].Theme != "Historic Center" {
		t.Fatalf("day 1 mismatch: %+v", it.Days[0])
	}
	if len(it.Days[0].Activities) != 2 {
		t.Fatalf("day 1 activities = %d, want 2", len(it.Days[0].Activities))
	}
	if it.Days[0].Activities[1].Time != "afternoon" {
		t.Fatalf("free-form time = %q, want %q", it.Days[0].Activities[1].Time, "afternoon")
	}
	if len(it.Days[1].Activities) != 0 {
		t.Fatalf("empty activities should be allowed, got %d", len(it.Days[1].Activities))
	}
}

func TestValidateAllowsNonContiguousDays(t *testing.T) {
	v := decodeAny(t, `{"itinerary": [
		{"day": 3, "theme": "a", "activities": []},
		{"day": 3, "theme": "b", "activities": []},
		{"day": 7, "theme": "c", "activities": []}
	]}`)

	it, err := Validate(v)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if len(it.Days) != 3 {
		t.Fatalf("Days = %d, want 3", len(it.Days))
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "top level not an object",
			raw:  `[1, 2, 3]`,
			want: "expected top-level object, got array",
		},
		{
			name: "missing itinerary key",
			raw:  `{"days": []}`,
			want: `missing required key "itinerary"`,
		},
		{
			name: "itinerary not an array",
			raw:  `{"itinerary": {"day": 1}}`,
			want: "itinerary: expected array, got object",
		},
		{
			name: "day element not an object",
			raw:  `{"itinerary": ["monday"]}`,
			want: "itinerary[0]: expected object, got string",
		},
		{
			name: "missing day number",
			raw:  `{"itinerary": [{"theme": "x", "activities": []}]}`,
			want: "itinerary[0].day: missing required field",
		},
		{
			name: "fractional day number",
			raw:  `{"itinerary": [{"day": 1.5, "theme": "x", "activities": []}]}`,
			want: "itinerary[0].day: expected integer, got fractional number",
		},
		{
			name: "day as string",
			raw:  `{"itinerary": [{"day": "1", "theme": "x", "activities": []}]}`,
			want: "itinerary[0].day: expected integer, got string",
		},
		{
			name: "theme not a string",
			raw:  `{"itinerary": [{"day": 1, "theme": 7, "activities": []}]}`,
			want: "itinerary[0].theme: expected string, got number",
		},
		{
			name: "activities not an array",
			raw:  `{"itinerary": [{"day": 1, "theme": "x", "activities": "none"}]}`,
			want: "itinerary[0].activities: expected array, got string",
		},
		{
			name: "activity missing location",
			raw:  `{"itinerary": [{"day": 1, "theme": "x", "activities": [{"time": "09:00", "description": "walk"}]}]}`,
			want: "itinerary[0].activities[0].location: missing required field",
		},
		{
			name: "activity field wrong type",
			raw:  `{"itinerary": [{"day": 1, "theme": "x", "activities": [{"time": 900, "description": "walk", "location": "park"}]}]}`,
			want: "itinerary[0].activities[0].time: expected string, got number",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(decodeAny(t, tc.raw))
			if err == nil {
				t.Fatal("Validate accepted invalid input")
			}
			if !errors.Is(err, domain.ErrSchemaViolation) {
				t.Fatalf("error is not a schema violation: %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestValidateAggregatesAllViolations(t *testing.T) {
	v := decodeAny(t, `{"itinerary": [
		{"theme": 1, "activities": [{"time": 9}]},
		{"day": 2, "theme": "ok", "activities": []}
	]}`)

	_, err := Validate(v)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error is %T, want *ValidationError", err)
	}
	// day missing, theme wrong type, plus three activity field violations.
	if len(verr.Violations) != 5 {
		t.Fatalf("violations = %d (%v), want 5", len(verr.Violations), verr.Violations)
	}
	for _, want := range []string{
		"itinerary[0].day: missing required field",
		"itinerary[0].theme: expected string, got number",
		"itinerary[0].activities[0].time: expected string, got number",
		"itinerary[0].activities[0].description: missing required field",
		"itinerary[0].activities[0].location: missing required field",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("aggregated error %q missing %q", err.Error(), want)
		}
	}
}
