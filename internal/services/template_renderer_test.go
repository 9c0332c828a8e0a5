package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashboi005/bulk-email-sender/internal/services"
	"github.com/ashboi005/bulk-email-sender/internal/types"
)

func TestTemplateRenderer_Render(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		record types.RecipientRecord
		want   string
	}{
		{
			name:   "substitutes a present field",
			text:   "Hi {{name}}",
			record: types.RecipientRecord{"name": "Ann"},
			want:   "Hi Ann",
		},
		{
			name:   "uses quoted fallback when field is missing",
			text:   `Hi {{name|"Friend"}}`,
			record: types.RecipientRecord{},
			want:   "Hi Friend",
		},
		{
			name:   "uses single quoted fallback",
			text:   "Hi {{name|'there'}}",
			record: types.RecipientRecord{},
			want:   "Hi there",
		},
		{
			name:   "uses unquoted fallback",
			text:   "Hi {{name|Friend}}",
			record: types.RecipientRecord{},
			want:   "Hi Friend",
		},
		{
			name:   "uses fallback when field is empty",
			text:   `Hi {{name|"Friend"}}`,
			record: types.RecipientRecord{"name": ""},
			want:   "Hi Friend",
		},
		{
			name:   "leaves unresolved token in place",
			text:   "Hi {{name}}",
			record: types.RecipientRecord{},
			want:   "Hi {{name}}",
		},
		{
			name:   "trims whitespace around the field name",
			text:   "Hi {{ name }}",
			record: types.RecipientRecord{"name": "Ann"},
			want:   "Hi Ann",
		},
		{
			name:   "resolves multiple tokens in one string",
			text:   "{{greeting|Hello}} {{first_name}}, your code is {{code}}",
			record: types.RecipientRecord{"first_name": "Bea", "code": "X1"},
			want:   "Hello Bea, your code is X1",
		},
		{
			name:   "does not re-expand token syntax inside a substituted value",
			text:   "Hi {{name}}",
			record: types.RecipientRecord{"name": "{{other}}", "other": "nope"},
			want:   "Hi {{other}}",
		},
		{
			name:   "field value wins over fallback",
			text:   `Hi {{name|"Friend"}}`,
			record: types.RecipientRecord{"name": "Ann"},
			want:   "Hi Ann",
		},
		{
			name:   "plain text passes through",
			text:   "no tokens here",
			record: types.RecipientRecord{"name": "Ann"},
			want:   "no tokens here",
		},
	}

	renderer := services.NewTemplateRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderer.Render(tt.text, tt.record)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplateRenderer_RenderIsIdempotent(t *testing.T) {
	renderer := services.NewTemplateRenderer()
	record := types.RecipientRecord{"name": "Ann"}

	once := renderer.Render("Hi {{name}}, {{missing}}", record)
	twice := renderer.Render(once, record)

	// The unresolved {{missing}} token survives a second pass unchanged.
	assert.Equal(t, once, twice)
}

func TestTemplateRenderer_RenderMessage(t *testing.T) {
	renderer := services.NewTemplateRenderer()
	tmpl := types.MessageTemplate{
		Subject:  "Hello {{name}}",
		HTMLBody: "<p>Hi {{name}}</p>",
		TextBody: "Hi {{name}}",
	}
	record := types.RecipientRecord{"name": "Ann", "email": "ann@example.com"}

	subject, html, text := renderer.RenderMessage(tmpl, record)

	assert.Equal(t, "Hello Ann", subject)
	assert.Equal(t, "<p>Hi Ann</p>", html)
	assert.Equal(t, "Hi Ann", text)
}

func TestTemplateRenderer_RenderMessageSkipsEmptyTextBody(t *testing.T) {
	renderer := services.NewTemplateRenderer()
	tmpl := types.MessageTemplate{
		Subject:  "Hello",
		HTMLBody: "<p>Hi</p>",
	}

	_, _, text := renderer.RenderMessage(tmpl, types.RecipientRecord{})

	assert.Empty(t, text)
}
