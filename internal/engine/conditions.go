package engine

import (
	"strings"

	"github.com/mkravets/formflow/internal/forms"
)

// EvaluateCondition decides whether one rule condition matches the current
// answer, given the field's category. It branches by category first because
// the same condition name means a different comparison per category (is on
// numbers is numeric equality, is on text is case-insensitive string
// equality, is on dates is timestamp equality with string fallback).
//
// An empty current value matches only always. Conditions that are not
// meaningful for a category, and unknown condition names, evaluate to false
// rather than erroring.
func EvaluateCondition(condition forms.Condition, current any, operand string, category Category) bool {
	cond := normalizeCondition(condition)

	if cond == forms.ConditionAlways {
		return true
	}
	if isEmpty(current) {
		return false
	}

	switch category {
	case CategoryMultiSelect:
		return evalMultiSelect(cond, current, operand)
	case CategoryNumber, CategoryRating, CategoryScale:
		return evalNumeric(cond, current, operand)
	case CategoryDate, CategoryDateTime:
		return evalDate(cond, current, operand)
	case CategoryTime:
		return evalTime(cond, current, operand)
	default:
		return evalText(cond, current, operand)
	}
}

func normalizeCondition(condition forms.Condition) forms.Condition {
	switch strings.ToLower(string(condition)) {
	case "is", "eq", "equals", "==", "=":
		return forms.ConditionIs
	case "is_not", "isnot", "neq", "not_equals", "!=":
		return forms.ConditionIsNot
	case "contains":
		return forms.ConditionContains
	case "does_not_contain", "doesnotcontain", "not_contains":
		return forms.ConditionDoesNotContain
	case "greater_than", "greaterthan", "gt", ">":
		return forms.ConditionGreaterThan
	case "less_than", "lessthan", "lt", "<":
		return forms.ConditionLessThan
	case "greater_than_or_equal", "greaterthanorequal", "gte", ">=":
		return forms.ConditionGreaterOrEqual
	case "less_than_or_equal", "lessthanorequal", "lte", "<=":
		return forms.ConditionLessOrEqual
	case "always", "any":
		return forms.ConditionAlways
	default:
		return condition
	}
}

// evalMultiSelect handles the multiselect matrix. contains and
// does_not_contain test set intersection between the normalized current list
// and the normalized operand list; is and is_not deliberately fall back to a
// whole-string compare rather than a list compare, so ["red","blue"] is
// "blue" stays false even though contains "blue" is true.
func evalMultiSelect(cond forms.Condition, current any, operand string) bool {
	switch cond {
	case forms.ConditionContains:
		return intersects(normalizeMulti(current), normalizeMulti(operand))
	case forms.ConditionDoesNotContain:
		return !intersects(normalizeMulti(current), normalizeMulti(operand))
	case forms.ConditionIs:
		return normalizeText(current) == strings.ToLower(strings.TrimSpace(operand))
	case forms.ConditionIsNot:
		return normalizeText(current) != strings.ToLower(strings.TrimSpace(operand))
	default:
		return false
	}
}

func intersects(current, wanted []string) bool {
	for _, c := range current {
		for _, w := range wanted {
			if strings.EqualFold(c, w) {
				return true
			}
		}
	}
	return false
}

// evalNumeric prefers numeric comparison when both sides parse; equality
// checks fall back to a string compare when either side doesn't, ordering
// checks never do.
func evalNumeric(cond forms.Condition, current any, operand string) bool {
	cur, curOK := parseNumber(current)
	op, opOK := parseNumber(operand)
	bothParsed := curOK && opOK

	switch cond {
	case forms.ConditionIs:
		if bothParsed {
			return cur == op
		}
		return normalizeText(current) == strings.ToLower(strings.TrimSpace(operand))
	case forms.ConditionIsNot:
		if bothParsed {
			return cur != op
		}
		return normalizeText(current) != strings.ToLower(strings.TrimSpace(operand))
	case forms.ConditionGreaterThan:
		return bothParsed && cur > op
	case forms.ConditionLessThan:
		return bothParsed && cur < op
	case forms.ConditionGreaterOrEqual:
		return bothParsed && cur >= op
	case forms.ConditionLessOrEqual:
		return bothParsed && cur <= op
	default:
		return false
	}
}

// evalDate mirrors evalNumeric on parsed timestamps. Only is, is_not,
// greater_than and less_than are meaningful for dates.
func evalDate(cond forms.Condition, current any, operand string) bool {
	cur, curOK := parseDate(current)
	op, opOK := parseDate(operand)
	bothParsed := curOK && opOK

	switch cond {
	case forms.ConditionIs:
		if bothParsed {
			return cur == op
		}
		return normalizeText(current) == strings.ToLower(strings.TrimSpace(operand))
	case forms.ConditionIsNot:
		if bothParsed {
			return cur != op
		}
		return normalizeText(current) != strings.ToLower(strings.TrimSpace(operand))
	case forms.ConditionGreaterThan:
		return bothParsed && cur > op
	case forms.ConditionLessThan:
		return bothParsed && cur < op
	default:
		return false
	}
}

// evalTime compares minute-of-day values; same reduced condition set as
// dates.
func evalTime(cond forms.Condition, current any, operand string) bool {
	cur, curOK := parseTime(current)
	op, opOK := parseTime(operand)
	bothParsed := curOK && opOK

	switch cond {
	case forms.ConditionIs:
		if bothParsed {
			return cur == op
		}
		return normalizeText(current) == strings.ToLower(strings.TrimSpace(operand))
	case forms.ConditionIsNot:
		if bothParsed {
			return cur != op
		}
		return normalizeText(current) != strings.ToLower(strings.TrimSpace(operand))
	case forms.ConditionGreaterThan:
		return bothParsed && cur > op
	case forms.ConditionLessThan:
		return bothParsed && cur < op
	default:
		return false
	}
}

// evalText is the default matrix for text, email, phone, textarea, select,
// radio and yesno fields: case-insensitive equality and substring checks.
// Numeric comparators on a text field never match.
func evalText(cond forms.Condition, current any, operand string) bool {
	cur := normalizeText(current)
	op := strings.ToLower(strings.TrimSpace(operand))

	switch cond {
	case forms.ConditionIs:
		return cur == op
	case forms.ConditionIsNot:
		return cur != op
	case forms.ConditionContains:
		return strings.Contains(cur, op)
	case forms.ConditionDoesNotContain:
		return !strings.Contains(cur, op)
	default:
		return false
	}
}
