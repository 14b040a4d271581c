package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// Message is a rendered email ready for a Sender.
type Message struct {
	To       string
	Subject  string
	HTML     string
	Category string
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{template "title" .}}</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(to right, #0077B5, #00A0DC); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: white; margin: 0;">{{template "title" .}}</h1>
  </div>
  <div style="background-color: #ffffff; padding: 30px; border-radius: 0 0 10px 10px;">
    {{template "body" .}}
    <p>Best regards,<br>The Linkup Team</p>
  </div>
</body>
</html>{{end}}`

var bodies = map[Kind]string{
	KindWelcome: `{{define "title"}}Welcome to Linkup!{{end}}
{{define "body"}}
<p style="font-size: 18px; color: #0077B5;"><strong>Hello {{.name}},</strong></p>
<p>We're thrilled to have you join our professional community. Start by completing your profile and connecting with colleagues.</p>
<div style="text-align: center; margin: 30px 0;">
  <a href="{{.profileUrl}}" style="background-color: #0077B5; color: white; padding: 14px 28px; text-decoration: none; border-radius: 30px;">Complete Your Profile</a>
</div>
{{end}}`,
	KindComment: `{{define "title"}}New Comment on Your Post{{end}}
{{define "body"}}
<p style="font-size: 18px; color: #0077B5;"><strong>Hello {{.recipientName}},</strong></p>
<p>{{.commenterName}} has commented on your post:</p>
<div style="background-color: #f3f6f8; border-left: 4px solid #0077B5; padding: 20px; margin: 20px 0;">
  <p style="font-style: italic; margin: 0;">"{{.content}}"</p>
</div>
<div style="text-align: center; margin: 30px 0;">
  <a href="{{.postUrl}}" style="background-color: #0077B5; color: white; padding: 14px 28px; text-decoration: none; border-radius: 30px;">View Comment</a>
</div>
{{end}}`,
	KindConnectionAccepted: `{{define "title"}}Connection Accepted!{{end}}
{{define "body"}}
<p style="font-size: 18px; color: #0077B5;"><strong>Hello {{.senderName}},</strong></p>
<p>Great news! <strong>{{.recipientName}}</strong> has accepted your connection request on Linkup.</p>
<div style="text-align: center; margin: 30px 0;">
  <a href="{{.profileUrl}}" style="background-color: #0077B5; color: white; padding: 14px 28px; text-decoration: none; border-radius: 30px;">View {{.recipientName}}'s Profile</a>
</div>
{{end}}`,
}

// Renderer turns jobs into messages. It is safe for concurrent use.
type Renderer struct {
	templates map[Kind]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[Kind]*template.Template, len(bodies))}
	for kind, body := range bodies {
		t, err := template.New(string(kind)).Option("missingkey=zero").Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		if _, err := t.Parse(body); err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		r.templates[kind] = t
	}
	return r, nil
}

func (r *Renderer) Render(job Job) (Message, error) {
	t, ok := r.templates[job.Kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown mail kind %q", job.Kind)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", job.Data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", job.Kind, err)
	}

	return Message{
		To:       job.To,
		Subject:  subject(job),
		HTML:     buf.String(),
		Category: category(job.Kind),
	}, nil
}

func subject(job Job) string {
	switch job.Kind {
	case KindWelcome:
		return "Welcome to Linkup"
	case KindComment:
		return "New comment on your post"
	case KindConnectionAccepted:
		return job.Data["recipientName"] + " accepted your connection request"
	}
	return ""
}

func category(kind Kind) string {
	switch kind {
	case KindWelcome:
		return "Welcome"
	case KindComment:
		return "comment_notification"
	case KindConnectionAccepted:
		return "connection_accepted"
	}
	return ""
}
