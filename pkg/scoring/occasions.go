package scoring

import "sort"

// Occasions maps every supported occasion key to the natural-language
// description used in similarity prompts and feedback text.
var Occasions = map[string]string{
	"job_interview":   "professional job interview",
	"date_night":      "romantic date night",
	"casual_hangout":  "casual social gathering",
	"work_meeting":    "business work meeting",
	"formal_event":    "formal wedding or gala event",
	"beach_vacation":  "beach or vacation setting",
	"night_out":       "night out with friends",
	"business_casual": "business casual workplace",
}

// ValidOccasion reports whether key is a supported occasion.
func ValidOccasion(key string) bool {
	_, ok := Occasions[key]
	return ok
}

// Description returns the natural-language description for an occasion
// key, or the key itself when unknown.
func Description(key string) string {
	if desc, ok := Occasions[key]; ok {
		return desc
	}
	return key
}

// OccasionKeys returns the supported occasion keys in sorted order.
func OccasionKeys() []string {
	keys := make([]string, 0, len(Occasions))
	for k := range Occasions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
