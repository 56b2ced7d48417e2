package web

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/san-kum/mrviz/internal/config"
)

//go:embed page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

// scriptLiteral makes text safe inside a single-line JavaScript template
// literal embedded in a <script> element.
var scriptLiteral = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`"`, `\"`,
	"${", `\${`,
	"<", `\x3c`,
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
)

// EscapeScriptLiteral escapes backslashes, backticks, double quotes, "${"
// and "<", and turns every line break into a single space.
func EscapeScriptLiteral(text string) string {
	return scriptLiteral.Replace(text)
}

type pageData struct {
	DefaultText string
	Timing      config.TimingConfig
}

// RenderPage builds the HTML document for cfg.
func RenderPage(cfg *config.Config) ([]byte, error) {
	data := pageData{
		DefaultText: EscapeScriptLiteral(cfg.Text),
		Timing:      cfg.Timing,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
