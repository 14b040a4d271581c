// Package mail renders and delivers transactional email off the request path.
package mail

import (
	"encoding/json"
	"fmt"
)

type Kind string

const (
	KindWelcome            Kind = "welcome"
	KindComment            Kind = "comment"
	KindConnectionAccepted Kind = "connectionAccepted"
)

// Job is one email to deliver. Data carries the template fields for Kind.
type Job struct {
	Kind Kind              `json:"kind"`
	To   string            `json:"to"`
	Data map[string]string `json:"data"`
}

func WelcomeJob(email, name, profileURL string) Job {
	return Job{
		Kind: KindWelcome,
		To:   email,
		Data: map[string]string{"name": name, "profileUrl": profileURL},
	}
}

func CommentJob(email, recipientName, commenterName, postURL, content string) Job {
	return Job{
		Kind: KindComment,
		To:   email,
		Data: map[string]string{
			"recipientName": recipientName,
			"commenterName": commenterName,
			"postUrl":       postURL,
			"content":       content,
		},
	}
}

// ConnectionAcceptedJob goes to the user who sent the request.
func ConnectionAcceptedJob(senderEmail, senderName, recipientName, profileURL string) Job {
	return Job{
		Kind: KindConnectionAccepted,
		To:   senderEmail,
		Data: map[string]string{
			"senderName":    senderName,
			"recipientName": recipientName,
			"profileUrl":    profileURL,
		},
	}
}

func (j Job) Encode() ([]byte, error) {
	return json.Marshal(j)
}

func DecodeJob(b []byte) (Job, error) {
	var j Job
	if err := json.Unmarshal(b, &j); err != nil {
		return Job{}, fmt.Errorf("decode mail job: %w", err)
	}
	if j.To == "" {
		return Job{}, fmt.Errorf("decode mail job: missing recipient")
	}
	return j, nil
}
