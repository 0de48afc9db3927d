package mail

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"text/template"
)

// Compose is a pre-filled outbound email handed to the compose launcher.
type Compose struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// MailtoURL renders the compose as a mailto: link the browser can open.
func (c Compose) MailtoURL() string {
	q := url.Values{}
	q.Set("subject", c.Subject)
	q.Set("body", c.Body)
	// mailto expects %20 rather than '+' for spaces
	return "mailto:" + url.PathEscape(c.To) + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

// LetterFacts are the project facts quoted in recommendation-letter emails.
type LetterFacts struct {
	ContactPerson  string
	ProjectName    string
	Client         string
	Location       string
	CompletionDate string
	PONumber       string
	Manager        string
	CompanyName    string
	SenderName     string
	DocumentURL    string
	RequestDate    string
	ReminderNumber int
}

var requestTmpl = template.Must(template.New("request").Parse(`Dear {{.ContactPerson}},

We hope this message finds you well. {{.CompanyName}} recently completed the following project for {{.Client}}:

  Project:         {{.ProjectName}}
  Location:        {{.Location}}
  PO Number:       {{.PONumber}}
  Completion date: {{.CompletionDate}}
  Project manager: {{.Manager}}

We would be grateful if you could provide a recommendation letter for our work on this project. For your convenience we have prepared a draft letter, which you may edit and sign:

{{.DocumentURL}}

Please send the signed letter back as a PDF by replying to this email.

Kind regards,
{{.SenderName}}
{{.CompanyName}}
`))

var reminderTmpl = template.Must(template.New("reminder").Parse(`Dear {{.ContactPerson}},

This is a friendly reminder{{if gt .ReminderNumber 1}} (reminder #{{.ReminderNumber}}){{end}} about our request{{if .RequestDate}} of {{.RequestDate}}{{end}} for a recommendation letter for the project below:

  Project:         {{.ProjectName}}
  Client:          {{.Client}}
  Location:        {{.Location}}
  PO Number:       {{.PONumber}}
  Completion date: {{.CompletionDate}}

An updated draft letter is available here:

{{.DocumentURL}}

We would appreciate receiving the signed letter as a PDF at your earliest convenience.

Kind regards,
{{.SenderName}}
{{.CompanyName}}
`))

func RequestEmail(to string, f LetterFacts) (Compose, error) {
	body, err := render(requestTmpl, f)
	if err != nil {
		return Compose{}, err
	}
	return Compose{
		To:      to,
		Subject: fmt.Sprintf("Request for Recommendation Letter - %s", f.ProjectName),
		Body:    body,
	}, nil
}

func ReminderEmail(to string, f LetterFacts) (Compose, error) {
	body, err := render(reminderTmpl, f)
	if err != nil {
		return Compose{}, err
	}
	return Compose{
		To:      to,
		Subject: fmt.Sprintf("Reminder: Recommendation Letter Request - %s", f.ProjectName),
		Body:    body,
	}, nil
}

func render(t *template.Template, f LetterFacts) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, f); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// Kind tells request and reminder emails apart for routing.
type Kind string

const (
	KindRequest  Kind = "request"
	KindReminder Kind = "reminder"
)
