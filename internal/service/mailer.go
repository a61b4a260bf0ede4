package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Message is a rendered e-mail
type Message struct {
	To        string
	Subject   string
	PlainBody string
	HTMLBody  string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of a mail server.
type LogMailer struct {
	from string
	log  *logrus.Logger
}

func NewLogMailer(from string, log *logrus.Logger) *LogMailer {
	return &LogMailer{from: from, log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.WithFields(logrus.Fields{
		"from":    m.from,
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email sent")
	m.log.Debug(msg.PlainBody)
	return nil
}
