package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

// EmailData defines standard fields for email templates.
type EmailData struct {
	// Basic info
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	// Company info
	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	// URLs
	LogoURL    string `json:"LogoURL"`
	SupportURL string `json:"SupportURL"`
	PrivacyURL string `json:"PrivacyURL"`
	VerifyURL  string `json:"VerifyURL"`

	// Additional data
	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
	Time          string    `json:"Time"`
	Role          string    `json:"Role"`
	Professional  bool      `json:"Professional"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		zero := reflect.Zero(rv.Type()).Interface()
		if reflect.DeepEqual(value, zero) {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

// ---- Template names ----

const (
	AccountCreated     = "account_created"
	ProfessionalStatus = "professional_status"
)

type source struct {
	subject, text, html string
}

var sources = map[string]source{
	AccountCreated: {
		subject: `Welcome to {{ .AppName | default "the directory" }}`,
		text: `Hi {{ .Name | default .Email }},

Your account {{ .Email }} was created with role {{ .Role }}.
{{ if .VerifyURL }}Confirm your email address to sign in: {{ .VerifyURL }}
{{ if .ExpiresAtText }}The link expires on {{ .ExpiresAtText }} UTC.
{{ end }}{{ end }}
{{ .CompanyName }}
`,
		html: `<p>Hi {{ .Name | default .Email }},</p>
<p>Your account <b>{{ .Email }}</b> was created with role {{ .Role }}.</p>
{{ if .VerifyURL }}<p><a href="{{ .VerifyURL }}">Confirm your email address</a> to sign in.{{ if .ExpiresAtText }} The link expires on {{ .ExpiresAtText }} UTC.{{ end }}</p>{{ end }}
<p>{{ .CompanyName }}<br>{{ .CompanyAddress }}</p>
`,
	},
	ProfessionalStatus: {
		subject: `Your professional status was {{ if .Professional }}granted{{ else }}removed{{ end }}`,
		text: `Hi {{ .Name | default .Email }},

Your account is {{ if .Professional }}now{{ else }}no longer{{ end }} listed as a professional.

{{ .CompanyName }}
`,
		html: `<p>Hi {{ .Name | default .Email }},</p>
<p>Your account is {{ if .Professional }}now{{ else }}no longer{{ end }} listed as a professional.</p>
<p>{{ .CompanyName }}<br>{{ .CompanyAddress }}</p>
`,
	},
}

func renderText(name, body string, data any) (string, error) {
	tpl, err := texttpl.New(name).Funcs(texttpl.FuncMap(baseFuncs())).Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse text %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

func renderHTML(name, body string, data any) (string, error) {
	tpl, err := htmpl.New(name).Funcs(htmpl.FuncMap(baseFuncs())).Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse html %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render renders the subject, text and html parts of the named template.
func Render(name string, data any) (subject string, text string, html string, err error) {
	src, ok := sources[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	if subject, err = renderText(name+".subject", src.subject, data); err != nil {
		return "", "", "", err
	}
	if text, err = renderText(name+".text", src.text, data); err != nil {
		return "", "", "", err
	}
	if html, err = renderHTML(name+".html", src.html, data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
