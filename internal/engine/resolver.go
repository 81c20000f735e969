package engine

import (
	"sort"

	"github.com/diegoholiveira/jsonlogic/v3"

	"github.com/mkravets/formflow/internal/forms"
)

// Resolve computes the next field to present after currentID, given the
// form's field list and the current answer value. It is a pure function:
// first matching logic rule, then the field's declared default, then
// sequential order, then end-of-form.
//
// Rules are attempted whenever the field has any, regardless of whether an
// answer exists yet; each condition applies its own emptiness guard, so an
// always rule fires even for an empty value.
//
// A destination id that is not part of the field list is treated as if no
// field were found and resolution falls through to sequential order.
//
// answers optionally carries the full per-field answer map for expression
// rules; it may be nil.
func Resolve(fields []forms.Field, currentID string, value any, answers map[string]any) Resolution {
	sorted := SortedFields(fields)

	known := make(map[string]struct{}, len(sorted))
	pos := -1
	for i, f := range sorted {
		known[f.ID] = struct{}{}
		if f.ID == currentID {
			pos = i
		}
	}
	if pos == -1 {
		return Resolution{Reason: ReasonEndOfForm}
	}
	current := sorted[pos]
	category := DetectCategory(current.Type)

	// 1. Logic rules, ascending by order, first match wins.
	appliedRule := ""
	if len(current.LogicRules) > 0 {
		rules := make([]forms.LogicRule, len(current.LogicRules))
		copy(rules, current.LogicRules)
		sort.SliceStable(rules, func(i, j int) bool { return rules[i].Order < rules[j].Order })

		for _, rule := range rules {
			if !ruleMatches(rule, value, category, currentID, answers) {
				continue
			}
			if rule.DestinationFieldID == nil {
				// Explicit null destination means end of form.
				return Resolution{AppliedRuleID: rule.ID, Reason: ReasonEndOfForm}
			}
			if _, ok := known[*rule.DestinationFieldID]; ok {
				dest := *rule.DestinationFieldID
				return Resolution{NextFieldID: &dest, AppliedRuleID: rule.ID, Reason: ReasonRuleMatch}
			}
			// Dangling destination: remember the rule for observability and
			// fall through to sequential order.
			appliedRule = rule.ID
			break
		}
	}

	// 2. Declared default next field.
	if appliedRule == "" && current.DefaultNextFieldID != nil {
		if _, ok := known[*current.DefaultNextFieldID]; ok {
			dest := *current.DefaultNextFieldID
			return Resolution{NextFieldID: &dest, Reason: ReasonDefaultNext}
		}
	}

	// 3. Next field by sorted position. Gaps in order numbering don't break
	// sequencing since adjacency is positional, not numeric.
	if pos+1 < len(sorted) {
		dest := sorted[pos+1].ID
		return Resolution{NextFieldID: &dest, AppliedRuleID: appliedRule, Reason: ReasonSequential}
	}

	// 4. End of list.
	return Resolution{AppliedRuleID: appliedRule, Reason: ReasonEndOfForm}
}

func ruleMatches(rule forms.LogicRule, value any, category Category, currentID string, answers map[string]any) bool {
	if rule.Expression != nil {
		return evalExpression(rule.Expression, value, currentID, answers)
	}
	return EvaluateCondition(rule.Condition, value, rule.Value, category)
}

// evalExpression applies a JsonLogic rule against the current value and the
// accumulated answer map. Any evaluation error or non-true result counts as
// a non-match, keeping bad expressions from branching.
func evalExpression(expression map[string]any, value any, currentID string, answers map[string]any) bool {
	data := map[string]any{
		"value":   value,
		"fieldId": currentID,
		"answers": answers,
	}
	result, err := jsonlogic.ApplyInterface(expression, data)
	if err != nil {
		return false
	}
	matched, ok := result.(bool)
	return ok && matched
}

// SortedFields returns the fields ordered ascending by Order. The sort is
// stable, so ties keep their original array position.
func SortedFields(fields []forms.Field) []forms.Field {
	sorted := make([]forms.Field, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	return sorted
}
