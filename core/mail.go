package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// ContextData wraps template data with deployment-wide values.
	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// mail templates, keyed by EmailMessage.TemplateName
var (
	textTemplates = texttmpl.Must(texttmpl.New("").Parse(`
{{define "welcome"}}Hello {{.Data.Name}},

An account has been created for you on {{.Data.AppName}}.
Set your password to activate it: {{.FrontendBaseURL}}{{.Data.Path}}
{{end}}
{{define "password-reset"}}Hello {{.Data.Name}},

You requested a password reset. Follow this link to choose a new password:
{{.FrontendBaseURL}}{{.Data.Path}}

If you did not request this, you can safely ignore this email.
{{end}}`))

	htmlTemplates = htmltmpl.Must(htmltmpl.New("").Parse(`
{{define "welcome"}}<p>Hello {{.Data.Name}},</p>
<p>An account has been created for you on {{.Data.AppName}}.</p>
<p><a href="{{.FrontendBaseURL}}{{.Data.Path}}">Set your password</a> to activate it.</p>
{{end}}
{{define "password-reset"}}<p>Hello {{.Data.Name}},</p>
<p>You requested a password reset. <a href="{{.FrontendBaseURL}}{{.Data.Path}}">Choose a new password</a>.</p>
<p>If you did not request this, you can safely ignore this email.</p>
{{end}}`))
)

// Render resolves the message's TemplateName (if any) into TextContent
// and HTMLContent. Non-templated messages pass BodyStr through.
func (m *EmailMessage) Render() error {
	if m.TemplateName == "" {
		m.TextContent = m.BodyStr
		return nil
	}

	var txt bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&txt, m.TemplateName, m.TemplateData); err != nil {
		return errors.Wrapf(err, "executing text template %q", m.TemplateName)
	}
	m.TextContent = txt.String()

	var html bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, m.TemplateName, m.TemplateData); err != nil {
		return errors.Wrapf(err, "executing html template %q", m.TemplateName)
	}
	m.HTMLContent = html.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.HTMLContent != "" || m.BodyStr != ""
}

func (m *EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}
