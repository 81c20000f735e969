package engine

import "strings"

// categoryProbe is one (substrings, category) pair of the classifier.
// Probes are tested top to bottom; the first substring hit wins.
type categoryProbe struct {
	subs []string
	cat  Category
}

// categoryProbes is ordered so that more specific labels are not shadowed by
// broader ones: "datetime" before "date" and "time", "multiselect" before
// "select", an explicit yesno check. This ordering is load-bearing.
var categoryProbes = []categoryProbe{
	{subs: []string{"datetime", "date_time", "date-time"}, cat: CategoryDateTime},
	{subs: []string{"multiselect", "multi_select", "multi-select", "checkbox"}, cat: CategoryMultiSelect},
	{subs: []string{"select", "dropdown"}, cat: CategorySelect},
	{subs: []string{"radio"}, cat: CategoryRadio},
	{subs: []string{"yesno", "yes_no", "yes-no", "boolean"}, cat: CategoryYesNo},
	{subs: []string{"rating"}, cat: CategoryRating},
	{subs: []string{"scale"}, cat: CategoryScale},
	{subs: []string{"number", "numeric"}, cat: CategoryNumber},
	{subs: []string{"date"}, cat: CategoryDate},
	{subs: []string{"time"}, cat: CategoryTime},
	{subs: []string{"email"}, cat: CategoryEmail},
	{subs: []string{"phone", "tel"}, cat: CategoryPhone},
	{subs: []string{"textarea", "text_area", "long_text", "longtext", "paragraph"}, cat: CategoryTextArea},
}

// DetectCategory maps a free-text field type label onto a Category using
// case-insensitive substring matching. Unmatched labels default to text.
func DetectCategory(typeLabel string) Category {
	label := strings.ToLower(strings.TrimSpace(typeLabel))
	for _, probe := range categoryProbes {
		for _, sub := range probe.subs {
			if strings.Contains(label, sub) {
				return probe.cat
			}
		}
	}
	return CategoryText
}
