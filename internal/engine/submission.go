package engine

import (
	"strings"

	"github.com/mkravets/formflow/internal/forms"
)

// ExpandAnswer converts one committed answer into well-formed submission
// entries. Multiselect answers expand to one entry per selected value; for
// choice fields the matching declared option contributes its id. Values
// that match no declared option are kept as plain entries rather than
// dropped.
func ExpandAnswer(field forms.Field, value any) []forms.Answer {
	if isEmpty(value) {
		return nil
	}

	if DetectCategory(field.Type) == CategoryMultiSelect {
		values := normalizeMulti(value)
		answers := make([]forms.Answer, 0, len(values))
		for _, v := range values {
			answers = append(answers, forms.Answer{
				FieldID:          field.ID,
				Value:            v,
				SelectedOptionID: optionID(field.Options, v),
			})
		}
		return answers
	}

	return []forms.Answer{{
		FieldID:          field.ID,
		Value:            value,
		SelectedOptionID: optionID(field.Options, stringify(value)),
	}}
}

func optionID(options []forms.Option, value string) string {
	for _, opt := range options {
		if strings.EqualFold(opt.Value, value) {
			return opt.ID
		}
	}
	return ""
}
