package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/mkravets/formflow/internal/forms"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintForms outputs forms in the specified format
func PrintForms(list []forms.Form, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(list)
	case FormatYAML:
		return printYAML(list)
	case FormatTable:
		return printTable(list)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintForm outputs a single form in the specified format
func PrintForm(form *forms.Form, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(form)
	case FormatYAML:
		return printYAML(form)
	case FormatTable:
		return printTable([]forms.Form{*form})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	// Wrap slices in a "forms" key for consistency with the snapshot endpoint
	if list, ok := data.([]forms.Form); ok {
		return encoder.Encode(map[string][]forms.Form{"forms": list})
	}
	return encoder.Encode(data)
}

func printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printTable(list []forms.Form) error {
	table := tablewriter.NewWriter(os.Stdout)

	table.Header("Key", "Title", "Published", "Fields", "Rules", "Env", "Updated At")

	for _, form := range list {
		published := "false"
		if form.Published {
			published = "true"
		}

		rules := 0
		for _, f := range form.Fields {
			rules += len(f.LogicRules)
		}

		title := form.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}

		table.Append(
			form.Key,
			title,
			published,
			fmt.Sprintf("%d", len(form.Fields)),
			fmt.Sprintf("%d", rules),
			form.Env,
			form.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}

	return table.Render()
}
