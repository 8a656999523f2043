package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2 style="color: #1E3A5F;">{{.Title}}</h2>
{{template "body" .Data}}
<p style="color: #888; font-size: 12px;">Candidate Boutique</p>
</div>
</body>
</html>{{end}}`

var bodies = map[string]string{
	"invitation": `{{define "body"}}
<p>Zostałeś zaproszony do Candidate Boutique ({{.Email}}).</p>
<p><a href="{{.Link}}">Załóż konto</a></p>
<p>Link wygasa {{.ExpiresAt.Format "2006-01-02 15:04"}}.</p>{{end}}`,

	"password_reset": `{{define "body"}}
<p>Otrzymaliśmy prośbę o zmianę hasła.</p>
<p><a href="{{.Link}}">Ustaw nowe hasło</a></p>
<p>Link jest ważny przez godzinę. Jeśli to nie Ty, zignoruj tę wiadomość.</p>{{end}}`,

	"candidate_registration": `{{define "body"}}
<p><b>{{.FullName}}</b> ({{.Email}})</p>
<p>Specjalizacja: {{.Specialization}}<br>Doświadczenie: {{.Experience}}</p>
{{if .LinkedInURL}}<p>LinkedIn: <a href="{{.LinkedInURL}}">{{.LinkedInURL}}</a></p>{{end}}
{{if .Source}}<p>Źródło: {{.Source}}</p>{{end}}
{{if .Message}}<p>{{.Message}}</p>{{end}}{{end}}`,

	"recruiter_registration": `{{define "body"}}
<p><b>{{.FullName}}</b> ({{.Email}})</p>
<p>Firma: {{.Company}}{{if .CompanyURL}} (<a href="{{.CompanyURL}}">{{.CompanyURL}}</a>){{end}}</p>
{{if .Message}}<p>{{.Message}}</p>{{end}}{{end}}`,

	"registration_accepted": `{{define "body"}}
<p>Cześć {{.FullName}},</p>
<p>Twoje zgłoszenie zostało zaakceptowane. Twój profil jest teraz widoczny dla rekruterów.</p>{{end}}`,

	"registration_rejected": `{{define "body"}}
<p>Cześć {{.FullName}},</p>
<p>Niestety nie możemy przyjąć Twojego zgłoszenia.</p>
{{if .Reason}}<p>Powód: {{.Reason}}</p>{{end}}{{end}}`,

	"contact_request": `{{define "body"}}
<p>Rekruter <b>{{.RecruiterEmail}}</b> prosi o kontakt z kandydatami:</p>
<ul>{{range .Candidates}}<li>{{.Name}}{{if .Role}} - {{.Role}}{{end}}{{if .Guardian}} (opiekun: {{.Guardian}}){{end}}</li>{{end}}</ul>
{{if .Message}}<p>{{.Message}}</p>{{end}}{{end}}`,
}

var templates = func() map[string]*template.Template {
	out := make(map[string]*template.Template, len(bodies))
	for name, body := range bodies {
		t := template.Must(template.New(name).Parse(layoutTemplate))
		out[name] = template.Must(t.Parse(body))
	}
	return out
}()

func render(name, title string, data any) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("email: unknown template %q", name)
	}
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "layout", struct {
		Title string
		Data  any
	}{Title: title, Data: data})
	if err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return buf.String(), nil
}

func build(to, subject, name string, data any) (Message, error) {
	html, err := render(name, subject, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{to}, Subject: subject, HTML: html}, nil
}

type InvitationData struct {
	Email     string
	Link      string
	ExpiresAt time.Time
}

func InvitationMessage(to string, data InvitationData) (Message, error) {
	return build(to, "Zaproszenie do Candidate Boutique", "invitation", data)
}

type PasswordResetData struct {
	Link string
}

func PasswordResetMessage(to string, data PasswordResetData) (Message, error) {
	return build(to, "Reset hasła", "password_reset", data)
}

type CandidateRegistrationData struct {
	FullName       string
	Email          string
	Specialization string
	Experience     string
	LinkedInURL    string
	Source         string
	Message        string
}

// CandidateRegistrationMessage notifies the admin inbox about a new application.
func CandidateRegistrationMessage(to string, data CandidateRegistrationData) (Message, error) {
	msg, err := build(to, "Nowe zgłoszenie kandydata: "+data.FullName, "candidate_registration", data)
	msg.ReplyTo = data.Email
	return msg, err
}

type RecruiterRegistrationData struct {
	FullName   string
	Email      string
	Company    string
	CompanyURL string
	Message    string
}

func RecruiterRegistrationMessage(to string, data RecruiterRegistrationData) (Message, error) {
	msg, err := build(to, "Nowe zgłoszenie rekrutera: "+data.Company, "recruiter_registration", data)
	msg.ReplyTo = data.Email
	return msg, err
}

type RegistrationDecisionData struct {
	FullName string
	Reason   string
}

func RegistrationAcceptedMessage(to string, data RegistrationDecisionData) (Message, error) {
	return build(to, "Zgłoszenie zaakceptowane", "registration_accepted", data)
}

func RegistrationRejectedMessage(to string, data RegistrationDecisionData) (Message, error) {
	return build(to, "Decyzja w sprawie zgłoszenia", "registration_rejected", data)
}

type ContactCandidate struct {
	Name     string
	Role     string
	Guardian string
}

type ContactRequestData struct {
	RecruiterEmail string
	Message        string
	Candidates     []ContactCandidate
}

func ContactRequestMessage(to string, data ContactRequestData) (Message, error) {
	msg, err := build(to, "Prośba o kontakt od "+data.RecruiterEmail, "contact_request", data)
	msg.ReplyTo = data.RecruiterEmail
	return msg, err
}
