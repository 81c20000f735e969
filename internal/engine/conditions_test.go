package engine

import (
	"testing"
	"time"

	"github.com/mkravets/formflow/internal/forms"
)

func TestEvaluateCondition(t *testing.T) {
	tests := []struct {
		name      string
		condition forms.Condition
		current   any
		operand   string
		category  Category
		want      bool
	}{
		// Text family: case-insensitive equality and substring checks.
		{name: "text is true", condition: forms.ConditionIs, current: "Yes", operand: "yes", category: CategoryText, want: true},
		{name: "text is false", condition: forms.ConditionIs, current: "no", operand: "yes", category: CategoryText, want: false},
		{name: "text is_not", condition: forms.ConditionIsNot, current: "no", operand: "yes", category: CategoryText, want: true},
		{name: "text contains", condition: forms.ConditionContains, current: "The Quick Fox", operand: "quick", category: CategoryText, want: true},
		{name: "text does_not_contain", condition: forms.ConditionDoesNotContain, current: "slow", operand: "quick", category: CategoryText, want: true},
		{name: "numeric comparator on text never matches", condition: forms.ConditionGreaterThan, current: "b", operand: "a", category: CategoryText, want: false},
		{name: "select uses text matrix", condition: forms.ConditionIs, current: "opt_a", operand: "OPT_A", category: CategorySelect, want: true},
		{name: "yesno uses text matrix", condition: forms.ConditionIs, current: "Yes", operand: "yes", category: CategoryYesNo, want: true},

		// Numbers, rating, scale.
		{name: "number is numeric equality", condition: forms.ConditionIs, current: "10.0", operand: "10", category: CategoryNumber, want: true},
		{name: "number gt", condition: forms.ConditionGreaterThan, current: 15, operand: "10", category: CategoryNumber, want: true},
		{name: "number gt false", condition: forms.ConditionGreaterThan, current: 5, operand: "10", category: CategoryNumber, want: false},
		{name: "number gte boundary", condition: forms.ConditionGreaterOrEqual, current: 10, operand: "10", category: CategoryNumber, want: true},
		{name: "number lte boundary", condition: forms.ConditionLessOrEqual, current: 10, operand: "10", category: CategoryRating, want: true},
		{name: "number lt", condition: forms.ConditionLessThan, current: 3, operand: "4", category: CategoryScale, want: true},
		{name: "gt unparsable operand safe", condition: forms.ConditionGreaterThan, current: 5, operand: "abc", category: CategoryNumber, want: false},
		{name: "gt unparsable current safe", condition: forms.ConditionGreaterThan, current: "abc", operand: "5", category: CategoryNumber, want: false},
		{name: "number is string fallback", condition: forms.ConditionIs, current: "N/A", operand: "n/a", category: CategoryNumber, want: true},

		// Multiselect: contains is set intersection, is stays whole-string.
		{name: "multiselect contains", condition: forms.ConditionContains, current: []string{"red", "blue"}, operand: "blue", category: CategoryMultiSelect, want: true},
		{name: "multiselect contains multi operand", condition: forms.ConditionContains, current: []string{"red"}, operand: "green||red", category: CategoryMultiSelect, want: true},
		{name: "multiselect contains false", condition: forms.ConditionContains, current: []string{"red"}, operand: "blue", category: CategoryMultiSelect, want: false},
		{name: "multiselect does_not_contain", condition: forms.ConditionDoesNotContain, current: []string{"red"}, operand: "blue", category: CategoryMultiSelect, want: true},
		{name: "multiselect is asymmetry", condition: forms.ConditionIs, current: []string{"red", "blue"}, operand: "blue", category: CategoryMultiSelect, want: false},
		{name: "multiselect is whole string", condition: forms.ConditionIs, current: []string{"red", "blue"}, operand: "red,blue", category: CategoryMultiSelect, want: true},
		{name: "multiselect is_not", condition: forms.ConditionIsNot, current: []string{"red"}, operand: "blue", category: CategoryMultiSelect, want: true},

		// Dates and datetimes.
		{name: "date is equal strings", condition: forms.ConditionIs, current: "2024-01-05", operand: "2024-01-05", category: CategoryDate, want: true},
		{name: "date gt", condition: forms.ConditionGreaterThan, current: "2024-02-01", operand: "2024-01-05", category: CategoryDate, want: true},
		{name: "date lt", condition: forms.ConditionLessThan, current: "2024-01-01", operand: "2024-01-05", category: CategoryDateTime, want: true},
		{name: "date gte not meaningful", condition: forms.ConditionGreaterOrEqual, current: "2024-01-05", operand: "2024-01-05", category: CategoryDate, want: false},
		{name: "date string fallback", condition: forms.ConditionIs, current: "someday", operand: "Someday", category: CategoryDate, want: true},
		{name: "datetime component compared", condition: forms.ConditionIs, current: "2024-01-05 09:30", operand: "2024-01-05 10:30", category: CategoryDateTime, want: false},

		// Times: minute-of-day comparison.
		{name: "time is", condition: forms.ConditionIs, current: "09:30", operand: "09:30", category: CategoryTime, want: true},
		{name: "time gt", condition: forms.ConditionGreaterThan, current: "10:00", operand: "09:30", category: CategoryTime, want: true},
		{name: "time lte not meaningful", condition: forms.ConditionLessOrEqual, current: "09:30", operand: "09:30", category: CategoryTime, want: false},

		// Empty value guard: only always matches.
		{name: "empty matches always", condition: forms.ConditionAlways, current: nil, operand: "", category: CategoryText, want: true},
		{name: "empty string matches always", condition: forms.ConditionAlways, current: "", operand: "", category: CategoryNumber, want: true},
		{name: "empty never matches is", condition: forms.ConditionIs, current: nil, operand: "", category: CategoryText, want: false},
		{name: "empty string never matches is", condition: forms.ConditionIs, current: "", operand: "", category: CategoryText, want: false},
		{name: "empty slice never matches contains", condition: forms.ConditionContains, current: []string{}, operand: "red", category: CategoryMultiSelect, want: false},

		// Aliases and unknown conditions.
		{name: "eq alias", condition: forms.Condition("=="), current: "a", operand: "a", category: CategoryText, want: true},
		{name: "gt alias", condition: forms.Condition(">"), current: 2, operand: "1", category: CategoryNumber, want: true},
		{name: "unknown condition is safe", condition: forms.Condition("sounds_like"), current: "a", operand: "a", category: CategoryText, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateCondition(tt.condition, tt.current, tt.operand, tt.category); got != tt.want {
				t.Fatalf("EvaluateCondition(%s, %v, %q, %s) = %v, want %v",
					tt.condition, tt.current, tt.operand, tt.category, got, tt.want)
			}
		})
	}
}

// A date string and a time.Time carrying the equivalent local-midnight
// timestamp are treated as equal by is.
func TestEvaluateCondition_DateObjectEquivalence(t *testing.T) {
	localMidnight := time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)

	if !EvaluateCondition(forms.ConditionIs, localMidnight, "2024-01-05", CategoryDate) {
		t.Fatal("time.Time at local midnight should equal its YYYY-MM-DD form")
	}
	if EvaluateCondition(forms.ConditionIs, localMidnight.Add(time.Hour), "2024-01-05", CategoryDate) {
		t.Fatal("shifted timestamp should not equal the date string")
	}
}
