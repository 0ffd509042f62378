package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

var passwordResetHTML = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>{{.AppName}} password reset</h2>
  <p>Hello {{.Name}},</p>
  <p>Use the code below to reset your password:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px;">{{.Code}}</p>
  <p>This code expires in {{.ExpiresIn}}.</p>
  <p>If you did not request a password reset, you can ignore this email.</p>
</body>
</html>
`))

var broadcastHTML = template.Must(template.New("broadcast").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>{{.Subject}}</h2>
  {{range .Paragraphs}}<p>{{.}}</p>
  {{end}}<hr>
  <p style="font-size: 12px; color: #7b8794;">Sent by {{.AppName}}</p>
</body>
</html>
`))

// Templates renders the emails the API sends.
type Templates struct {
	AppName string
}

func (t Templates) PasswordReset(to, name, code string, expiresIn time.Duration) (Message, error) {
	data := struct {
		AppName   string
		Name      string
		Code      string
		ExpiresIn string
	}{
		AppName:   t.AppName,
		Name:      name,
		Code:      code,
		ExpiresIn: humanDuration(expiresIn),
	}
	var html bytes.Buffer
	if err := passwordResetHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render password reset: %w", err)
	}
	text := fmt.Sprintf("Hello %s,\n\nYour %s password reset code is %s.\nThis code expires in %s.\n\nIf you did not request this, ignore this email.\n",
		name, t.AppName, code, data.ExpiresIn)
	return Message{
		To:      to,
		Subject: t.AppName + " password reset code",
		Text:    text,
		HTML:    html.String(),
	}, nil
}

func (t Templates) Broadcast(to, subject, body string) (Message, error) {
	data := struct {
		AppName    string
		Subject    string
		Paragraphs []string
	}{
		AppName:    t.AppName,
		Subject:    subject,
		Paragraphs: paragraphs(body),
	}
	var html bytes.Buffer
	if err := broadcastHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render broadcast: %w", err)
	}
	return Message{To: to, Subject: subject, Text: body, HTML: html.String()}, nil
}

func paragraphs(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
