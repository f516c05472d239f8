package planner

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// itinerarySchemaHint is the structural shape hint handed to the model
// alongside the prompt. It must stay in sync with the itinjson contract.
const itinerarySchemaHint = `{"itinerary":[{"day":1,"theme":"string","activities":[{"time":"string","description":"string","location":"string"}]}]}`

// buildPrompt embeds destination and duration into the generation prompt. The
// locale only steers the output language; it never affects the schema.
func buildPrompt(destination string, durationDays int, locale string) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "You are an expert travel planner. Create a %d-day itinerary for %s.", durationDays, titleCase(destination, locale))
	sb.WriteString(" Give each day a short theme and two to four concrete activities with realistic timing.")
	if locale != "" && !strings.HasPrefix(strings.ToLower(locale), "en") {
		fmt.Fprintf(sb, " Write all themes and descriptions in the language for locale %q.", locale)
	}
	return sb.String()
}

func titleCase(s, locale string) string {
	return cases.Title(promptLanguage(locale)).String(strings.TrimSpace(s))
}

func promptLanguage(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}
