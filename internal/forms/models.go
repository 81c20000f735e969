package forms

import "time"

// Condition represents a comparison condition used in logic rules.
type Condition string

// Supported rule conditions (string values for clean JSON serialization).
const (
	ConditionIs             Condition = "is"
	ConditionIsNot          Condition = "is_not"
	ConditionContains       Condition = "contains"
	ConditionDoesNotContain Condition = "does_not_contain"
	ConditionGreaterThan    Condition = "greater_than"
	ConditionLessThan       Condition = "less_than"
	ConditionGreaterOrEqual Condition = "greater_than_or_equal"
	ConditionLessOrEqual    Condition = "less_than_or_equal"
	ConditionAlways         Condition = "always"
)

// Option represents one choice of a select/multiselect/radio field.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// LogicRule represents a single conditional branch attached to a field.
// Rules are evaluated in ascending Order; the first match wins.
// A nil DestinationFieldID means "end of form".
//
// Value is the string-encoded comparison operand; its semantics depend on
// the owning field's category (numeric string, date string, option value,
// or multiple values joined by "||" or ",").
//
// Expression optionally carries a JsonLogic document evaluated against the
// full answer map; when present it takes the place of Condition/Value for
// this rule.
type LogicRule struct {
	ID                 string         `json:"id"`
	Condition          Condition      `json:"condition"`
	Value              string         `json:"value"`
	DestinationFieldID *string        `json:"destinationFieldId"`
	Order              int            `json:"order"`
	Expression         map[string]any `json:"expression,omitempty"`
}

// Field represents one question of a form.
type Field struct {
	ID                 string      `json:"id"`
	Label              string      `json:"label"`
	Type               string      `json:"type"`
	Order              int         `json:"order"`
	Required           bool        `json:"required,omitempty"`
	Options            []Option    `json:"options,omitempty"`
	LogicRules         []LogicRule `json:"logicRules,omitempty"`
	DefaultNextFieldID *string     `json:"defaultNextFieldId,omitempty"`
}

// Form represents a form definition with its fields and branching logic.
type Form struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Published   bool      `json:"published"`
	Fields      []Field   `json:"fields"`
	Env         string    `json:"env"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Answer is one committed (fieldId, value) pair of a form response.
// SelectedOptionID is set for choice fields when the value maps to a
// declared option; multiselect answers expand to one Answer per option.
type Answer struct {
	FieldID          string `json:"fieldId"`
	Value            any    `json:"value"`
	SelectedOptionID string `json:"selectedOptionId,omitempty"`
}
