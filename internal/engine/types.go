package engine

// Category is the semantic answer-type classification of a field, derived
// from its free-text type label by DetectCategory.
type Category string

const (
	CategoryText        Category = "text"
	CategoryTextArea    Category = "textarea"
	CategoryEmail       Category = "email"
	CategoryPhone       Category = "phone"
	CategoryNumber      Category = "number"
	CategoryRating      Category = "rating"
	CategoryScale       Category = "scale"
	CategoryDate        Category = "date"
	CategoryTime        Category = "time"
	CategoryDateTime    Category = "datetime"
	CategorySelect      Category = "select"
	CategoryMultiSelect Category = "multiselect"
	CategoryRadio       Category = "radio"
	CategoryYesNo       Category = "yesno"
)

// Reason represents why a resolution produced its destination.
type Reason string

const (
	ReasonRuleMatch   Reason = "RULE_MATCH"
	ReasonDefaultNext Reason = "DEFAULT_NEXT"
	ReasonSequential  Reason = "SEQUENTIAL"
	ReasonEndOfForm   Reason = "END_OF_FORM"
)

// Resolution is the deterministic output of Resolve: either a concrete next
// field id or end-of-form (nil NextFieldID). AppliedRuleID names the logic
// rule that fired, if any; it is informational and never affects control
// flow.
type Resolution struct {
	NextFieldID   *string `json:"nextFieldId"`
	AppliedRuleID string  `json:"appliedRuleId,omitempty"`
	Reason        Reason  `json:"reason"`
}

// EndOfForm reports whether the resolution terminates the form.
func (r Resolution) EndOfForm() bool {
	return r.NextFieldID == nil
}
