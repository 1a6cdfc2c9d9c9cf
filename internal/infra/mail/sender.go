package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

//go:embed templates/welcome.html
var templates embed.FS

var welcomeTmpl = template.Must(template.ParseFS(templates, "templates/welcome.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// NewEmailSenderWithDialer is used when the SMTP transport is provided by the caller.
func NewEmailSenderWithDialer(d Dialer, from string) *EmailSender {
	return &EmailSender{From: from, dialer: d}
}

func (s *EmailSender) SendWelcome(to, name string) error {
	body, err := renderWelcome(WelcomeEmailData{
		Name:     name,
		Email:    to,
		LoginURL: s.LoginURL,
	})
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Welcome to Ligue CRM, %s!", name))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "send welcome email to %s", to)
	}
	return nil
}

func renderWelcome(data WelcomeEmailData) (string, error) {
	var body bytes.Buffer
	if err := welcomeTmpl.Execute(&body, data); err != nil {
		return "", errors.Wrap(err, "render welcome template")
	}
	return body.String(), nil
}
