package services

import (
	"regexp"
	"strings"

	"github.com/ashboi005/bulk-email-sender/internal/types"
)

// tokenPattern matches {{name}} and {{name|fallback}} placeholders.
var tokenPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// TemplateRenderer resolves {{variable}} and {{variable|fallback}} tokens
// against a recipient record.
type TemplateRenderer struct{}

// NewTemplateRenderer creates a template renderer.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{}
}

// Render substitutes every token in text from the recipient record in a
// single pass. A token whose field is absent or empty takes its fallback if
// one was supplied; otherwise the token is left literally in the output so
// the caller can see which fields went unresolved. Substituted values are
// never re-expanded.
func (r *TemplateRenderer) Render(text string, record types.RecipientRecord) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		body := strings.TrimSpace(token[2 : len(token)-2])

		name, fallback, hasFallback := strings.Cut(body, "|")
		name = strings.TrimSpace(name)

		if value, ok := record[name]; ok && value != "" {
			return value
		}
		if hasFallback {
			return stripQuotes(strings.TrimSpace(fallback))
		}
		return token
	})
}

// RenderMessage applies the template to one recipient.
func (r *TemplateRenderer) RenderMessage(tmpl types.MessageTemplate, record types.RecipientRecord) (subject, html, text string) {
	subject = r.Render(tmpl.Subject, record)
	html = r.Render(tmpl.HTMLBody, record)
	if tmpl.TextBody != "" {
		text = r.Render(tmpl.TextBody, record)
	}
	return subject, html, text
}

// stripQuotes removes one matching pair of surrounding single or double
// quotes from a fallback value.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
