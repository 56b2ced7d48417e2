package web

import (
	"strings"
	"testing"

	"github.com/san-kum/mrviz/internal/config"
)

func TestEscapeScriptLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "to be or not", "to be or not"},
		{"backslash", `a\b`, `a\\b`},
		{"backtick", "a`b", "a\\`b"},
		{"double quote", `say "hi"`, `say \"hi\"`},
		{"newline", "line one\nline two", "line one line two"},
		{"crlf collapses to one space", "a\r\nb", "a b"},
		{"lone cr", "a\rb", "a b"},
		{"interpolation", "cost ${price}", `cost \${price}`},
		{"script close", "</script>", `\x3c/script>`},
		{"backslash before backtick", "\\`", "\\\\\\`"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeScriptLiteral(tt.input); got != tt.want {
				t.Errorf("EscapeScriptLiteral(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapedTextIsSingleLine(t *testing.T) {
	got := EscapeScriptLiteral("one\ntwo\r\nthree\rfour")
	if strings.ContainsAny(got, "\r\n") {
		t.Errorf("escaped text still has line breaks: %q", got)
	}
}

func TestRenderPage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Text = "hello `world`\nagain"
	cfg.Timing.MapStepMs = 75

	page, err := RenderPage(cfg)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	html := string(page)

	for _, want := range []string{
		"<!doctype html>",
		"const defaultText = `hello \\`world\\` again`;",
		"mapStep: 75, stageGap: 400, chipStep: 120",
		`id="mapList"`,
		`id="shuffleList"`,
		`id="reduceList"`,
		"Stage: —",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(html, "{{") {
		t.Error("page has unrendered template actions")
	}
}

func TestRenderPageDefaultText(t *testing.T) {
	page, err := RenderPage(config.DefaultConfig())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want := "to be or not to be that is the question. to be yourself"
	if !strings.Contains(string(page), want) {
		t.Errorf("default quotation not embedded on one line")
	}
}
