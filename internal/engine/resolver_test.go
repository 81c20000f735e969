package engine

import (
	"reflect"
	"testing"

	"github.com/mkravets/formflow/internal/forms"
)

func strPtr(s string) *string { return &s }

func linearFields(ids ...string) []forms.Field {
	fields := make([]forms.Field, 0, len(ids))
	for i, id := range ids {
		fields = append(fields, forms.Field{ID: id, Type: "short_text", Order: i})
	}
	return fields
}

func TestResolve_FirstMatchWins(t *testing.T) {
	fields := []forms.Field{
		{ID: "f1", Type: "text", Order: 0, LogicRules: []forms.LogicRule{
			{ID: "r1", Order: 1, Condition: forms.ConditionIs, Value: "a", DestinationFieldID: strPtr("f3")},
			{ID: "r2", Order: 2, Condition: forms.ConditionAlways, DestinationFieldID: strPtr("f2")},
		}},
		{ID: "f2", Type: "text", Order: 1},
		{ID: "f3", Type: "text", Order: 2},
	}

	got := Resolve(fields, "f1", "a", nil)
	if got.NextFieldID == nil || *got.NextFieldID != "f3" || got.AppliedRuleID != "r1" {
		t.Fatalf("input a: got %+v, want f3 via r1", got)
	}

	got = Resolve(fields, "f1", "b", nil)
	if got.NextFieldID == nil || *got.NextFieldID != "f2" || got.AppliedRuleID != "r2" {
		t.Fatalf("input b: got %+v, want f2 via r2", got)
	}
	if got.Reason != ReasonRuleMatch {
		t.Fatalf("Reason = %s, want %s", got.Reason, ReasonRuleMatch)
	}
}

// Rules are sorted by their order value, not array position.
func TestResolve_RuleOrderSorted(t *testing.T) {
	fields := []forms.Field{
		{ID: "f1", Type: "text", Order: 0, LogicRules: []forms.LogicRule{
			{ID: "late", Order: 5, Condition: forms.ConditionAlways, DestinationFieldID: strPtr("f3")},
			{ID: "early", Order: 1, Condition: forms.ConditionAlways, DestinationFieldID: strPtr("f2")},
		}},
		{ID: "f2", Type: "text", Order: 1},
		{ID: "f3", Type: "text", Order: 2},
	}

	got := Resolve(fields, "f1", "anything", nil)
	if got.AppliedRuleID != "early" {
		t.Fatalf("AppliedRuleID = %s, want early", got.AppliedRuleID)
	}
}

func TestResolve_EmptyValueFallsThroughNonAlwaysRules(t *testing.T) {
	fields := []forms.Field{
		{ID: "f1", Type: "text", Order: 0,
			LogicRules: []forms.LogicRule{
				{ID: "r1", Order: 1, Condition: forms.ConditionIs, Value: "a", DestinationFieldID: strPtr("f3")},
			},
			DefaultNextFieldID: strPtr("f2"),
		},
		{ID: "f2", Type: "text", Order: 1},
		{ID: "f3", Type: "text", Order: 2},
	}

	got := Resolve(fields, "f1", nil, nil)
	if got.NextFieldID == nil || *got.NextFieldID != "f2" {
		t.Fatalf("got %+v, want default next f2", got)
	}
	if got.Reason != ReasonDefaultNext {
		t.Fatalf("Reason = %s, want %s", got.Reason, ReasonDefaultNext)
	}

	// Without a default the empty value falls to sequential order.
	fields[0].DefaultNextFieldID = nil
	got = Resolve(fields, "f1", nil, nil)
	if got.NextFieldID == nil || *got.NextFieldID != "f2" || got.Reason != ReasonSequential {
		t.Fatalf("got %+v, want sequential f2", got)
	}
}

// An always rule fires even when no answer exists yet: the emptiness guard
// lives at the condition level, not the field level.
func TestResolve_AlwaysFiresOnEmptyValue(t *testing.T) {
	fields := []forms.Field{
		{ID: "f1", Type: "number", Order: 0, LogicRules: []forms.LogicRule{
			{ID: "r1", Order: 0, Condition: forms.ConditionGreaterThan, Value: "10", DestinationFieldID: strPtr("f3")},
			{ID: "r2", Order: 1, Condition: forms.ConditionAlways, DestinationFieldID: strPtr("f2")},
		}},
		{ID: "f2", Type: "text", Order: 1},
		{ID: "f3", Type: "text", Order: 2},
	}

	for _, tt := range []struct {
		name  string
		value any
		want  string
		rule  string
	}{
		{name: "over threshold", value: 15, want: "f3", rule: "r1"},
		{name: "under threshold", value: 5, want: "f2", rule: "r2"},
		{name: "no answer yet", value: nil, want: "f2", rule: "r2"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(fields, "f1", tt.value, nil)
			if got.NextFieldID == nil || *got.NextFieldID != tt.want || got.AppliedRuleID != tt.rule {
				t.Fatalf("got %+v, want %s via %s", got, tt.want, tt.rule)
			}
		})
	}
}

func TestResolve_SequentialFallback(t *testing.T) {
	// Order values have gaps; adjacency is positional after sorting.
	fields := []forms.Field{
		{ID: "f5", Type: "text", Order: 50},
		{ID: "f1", Type: "text", Order: 10},
		{ID: "f3", Type: "text", Order: 30},
	}

	got := Resolve(fields, "f1", "anything", nil)
	if got.NextFieldID == nil || *got.NextFieldID != "f3" || got.Reason != ReasonSequential {
		t.Fatalf("got %+v, want sequential f3", got)
	}

	got = Resolve(fields, "f5", "anything", nil)
	if !got.EndOfForm() || got.Reason != ReasonEndOfForm {
		t.Fatalf("last field should resolve to end of form, got %+v", got)
	}
}

func TestResolve_ExplicitNullDestinationEndsForm(t *testing.T) {
	fields := []forms.Field{
		{ID: "f1", Type: "text", Order: 0, LogicRules: []forms.LogicRule{
			{ID: "r1", Order: 0, Condition: forms.ConditionIs, Value: "done", DestinationFieldID: nil},
		}},
		{ID: "f2", Type: "text", Order: 1},
	}

	got := Resolve(fields, "f1", "done", nil)
	if !got.EndOfForm() || got.AppliedRuleID != "r1" {
		t.Fatalf("got %+v, want end of form via r1", got)
	}
}

func TestResolve_DanglingDestinationFallsThroughToSequential(t *testing.T) {
	fields := []forms.Field{
		{ID: "f1", Type: "text", Order: 0,
			LogicRules: []forms.LogicRule{
				{ID: "r1", Order: 0, Condition: forms.ConditionAlways, DestinationFieldID: strPtr("deleted")},
			},
			DefaultNextFieldID: strPtr("also_deleted"),
		},
		{ID: "f2", Type: "text", Order: 1},
	}

	got := Resolve(fields, "f1", "anything", nil)
	if got.NextFieldID == nil || *got.NextFieldID != "f2" || got.Reason != ReasonSequential {
		t.Fatalf("got %+v, want sequential f2", got)
	}

	// The dangling default alone also degrades to sequential order.
	fields[0].LogicRules = nil
	got = Resolve(fields, "f1", "anything", nil)
	if got.NextFieldID == nil || *got.NextFieldID != "f2" || got.Reason != ReasonSequential {
		t.Fatalf("got %+v, want sequential f2", got)
	}
}

func TestResolve_UnknownCurrentField(t *testing.T) {
	got := Resolve(linearFields("f1", "f2"), "ghost", "x", nil)
	if !got.EndOfForm() {
		t.Fatalf("unknown current field should end the form, got %+v", got)
	}
}

func TestResolve_ExpressionRule(t *testing.T) {
	fields := []forms.Field{
		{ID: "f1", Type: "number", Order: 0, LogicRules: []forms.LogicRule{
			{ID: "expr", Order: 0, DestinationFieldID: strPtr("f3"),
				Expression: map[string]any{
					">": []any{map[string]any{"var": "value"}, 10.0},
				}},
			{ID: "fallback", Order: 1, Condition: forms.ConditionAlways, DestinationFieldID: strPtr("f2")},
		}},
		{ID: "f2", Type: "text", Order: 1},
		{ID: "f3", Type: "text", Order: 2},
	}

	got := Resolve(fields, "f1", 15.0, nil)
	if got.NextFieldID == nil || *got.NextFieldID != "f3" || got.AppliedRuleID != "expr" {
		t.Fatalf("got %+v, want f3 via expr", got)
	}

	got = Resolve(fields, "f1", 5.0, nil)
	if got.NextFieldID == nil || *got.NextFieldID != "f2" || got.AppliedRuleID != "fallback" {
		t.Fatalf("got %+v, want f2 via fallback", got)
	}

	// A broken expression is a non-match, not an error.
	fields[0].LogicRules[0].Expression = map[string]any{"bogus_op": []any{1, 2}}
	got = Resolve(fields, "f1", 15.0, nil)
	if got.AppliedRuleID != "fallback" {
		t.Fatalf("broken expression should fall through, got %+v", got)
	}
}

func TestSortedFields_StableOnTies(t *testing.T) {
	fields := []forms.Field{
		{ID: "a", Order: 1},
		{ID: "b", Order: 1},
		{ID: "c", Order: 0},
	}
	got := SortedFields(fields)
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	if !reflect.DeepEqual(ids, []string{"c", "a", "b"}) {
		t.Fatalf("sorted ids = %v, want [c a b]", ids)
	}
	// Input slice must stay untouched.
	if fields[0].ID != "a" {
		t.Fatal("SortedFields mutated its input")
	}
}
