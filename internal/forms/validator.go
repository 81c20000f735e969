package forms

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by ValidateForm and ValidateField.
var (
	ErrInvalidField       = errors.New("invalid field")
	ErrInvalidCondition   = errors.New("invalid condition")
	ErrInvalidOption      = errors.New("invalid option")
	ErrInvalidDestination = errors.New("invalid destination")
)

// validConditions is the set of all recognised rule conditions.
var validConditions = map[Condition]struct{}{
	ConditionIs:             {},
	ConditionIsNot:          {},
	ConditionContains:       {},
	ConditionDoesNotContain: {},
	ConditionGreaterThan:    {},
	ConditionLessThan:       {},
	ConditionGreaterOrEqual: {},
	ConditionLessOrEqual:    {},
	ConditionAlways:         {},
}

// ValidateForm performs strict validation of a form definition.
// It is a pure function: it never mutates f and has no side effects.
func ValidateForm(f Form) error {
	if f.Key == "" {
		return fmt.Errorf("%w: form key must not be empty", ErrInvalidField)
	}

	ids := make(map[string]struct{}, len(f.Fields))
	for i, fld := range f.Fields {
		if fld.ID == "" {
			return fmt.Errorf("%w: field[%d] id must not be empty", ErrInvalidField, i)
		}
		if _, dup := ids[fld.ID]; dup {
			return fmt.Errorf("%w: field[%d] id %q is duplicated", ErrInvalidField, i, fld.ID)
		}
		ids[fld.ID] = struct{}{}
	}

	for i, fld := range f.Fields {
		if err := ValidateField(fld, ids); err != nil {
			return fmt.Errorf("field[%d] %q: %w", i, fld.ID, err)
		}
	}
	return nil
}

// ValidateField validates a single field and its logic rules.
// knownIDs is the set of field ids present in the owning form; rule
// destinations and the default next field must be members of it or nil.
func ValidateField(f Field, knownIDs map[string]struct{}) error {
	for i, opt := range f.Options {
		if opt.Value == "" {
			return fmt.Errorf("%w: option[%d] value must not be empty", ErrInvalidOption, i)
		}
	}

	if f.DefaultNextFieldID != nil {
		if _, ok := knownIDs[*f.DefaultNextFieldID]; !ok {
			return fmt.Errorf("%w: default next field %q is not part of the form", ErrInvalidDestination, *f.DefaultNextFieldID)
		}
	}

	for i, rule := range f.LogicRules {
		if err := validateRule(i, rule, knownIDs); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(i int, r LogicRule, knownIDs map[string]struct{}) error {
	// Expression rules carry their own JsonLogic document and skip the
	// condition enum entirely.
	if r.Expression == nil {
		if _, ok := validConditions[r.Condition]; !ok {
			return fmt.Errorf("%w: rule[%d] condition %q is not supported", ErrInvalidCondition, i, r.Condition)
		}
		if r.Condition != ConditionAlways && r.Value == "" {
			return fmt.Errorf("%w: rule[%d] condition %q requires a comparison value", ErrInvalidCondition, i, r.Condition)
		}
	}

	if r.DestinationFieldID != nil {
		if _, ok := knownIDs[*r.DestinationFieldID]; !ok {
			return fmt.Errorf("%w: rule[%d] destination %q is not part of the form", ErrInvalidDestination, i, *r.DestinationFieldID)
		}
	}
	return nil
}
