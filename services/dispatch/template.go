package dispatch

import "strings"

// Fallback values substituted for absent appointment or shop fields
// before a template is rendered.
const (
	FallbackClientName = "client"
	FallbackTimeLabel  = "00:00"
	FallbackShopName   = "your barber"
)

// TemplateFields are the placeholder values available to a reminder
// template: {{name}}, {{time}} and {{barber}}.
type TemplateFields struct {
	Name   string
	Time   string
	Barber string
}

// applyFallbacks fills absent or blank fields with the configured
// defaults. Runs before rendering so templates never see empty values.
func applyFallbacks(f TemplateFields) TemplateFields {
	if strings.TrimSpace(f.Name) == "" {
		f.Name = FallbackClientName
	}
	if strings.TrimSpace(f.Time) == "" {
		f.Time = FallbackTimeLabel
	}
	if strings.TrimSpace(f.Barber) == "" {
		f.Barber = FallbackShopName
	}
	return f
}

// RenderTemplate substitutes the named placeholders with the given
// fields. Unknown tokens are left in place. Pure function, no side
// effects.
func RenderTemplate(tmpl string, f TemplateFields) string {
	r := strings.NewReplacer(
		"{{name}}", f.Name,
		"{{time}}", f.Time,
		"{{barber}}", f.Barber,
	)
	return r.Replace(tmpl)
}
