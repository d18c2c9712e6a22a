// Package anonymize rewrites personally identifying fields in export rows.
// Rules use ${index} templates so the output stays deterministic: the same
// dataset always anonymizes to the same values, keeping exports diffable.
package anonymize

import (
	"strconv"
	"strings"
)

// Rule rewrites a single field on every exported row.
type Rule struct {
	Field    string
	Template string
}

// UserRules covers the identifying columns of a user export.
var UserRules = []Rule{
	{Field: "username", Template: "user${index}"},
	{Field: "email", Template: "user${index}@example.org"},
}

// ResourceRules covers the identifying columns of a resource export.
// Contact details collapse to a plain string since the original structure
// itself can identify the provider.
var ResourceRules = []Rule{
	{Field: "provider_name", Template: "Provider ${index}"},
	{Field: "provider_contact", Template: "provider${index}@example.org"},
}

// Render expands ${index} placeholders in a template. Templates without a
// placeholder are returned as-is, which turns the rule into a constant mask.
func Render(template string, index int) string {
	if !strings.Contains(template, "${index}") {
		return template
	}
	return strings.ReplaceAll(template, "${index}", strconv.Itoa(index))
}

// Apply rewrites the ruled fields on each row in place. Rows are numbered
// from 1 in slice order. Fields absent from a row are left untouched. Returns
// the number of values rewritten.
func Apply(rows []map[string]interface{}, rules []Rule) int {
	if len(rules) == 0 {
		return 0
	}

	rewritten := 0
	for i, row := range rows {
		for _, rule := range rules {
			if _, ok := row[rule.Field]; !ok {
				continue
			}
			row[rule.Field] = Render(rule.Template, i+1)
			rewritten++
		}
	}

	return rewritten
}
