package mailer

import (
	"context"
	"time"

	"github.com/vesselworks/dashboard/internal/config"
	"github.com/vesselworks/dashboard/internal/pkg/mail"
)

type jsonPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, data any) error
}

// ComposeEvent is consumed by the UI notifier, which opens the user's mail composer pre-filled.
type ComposeEvent struct {
	Kind      mail.Kind `json:"kind"`
	ProjectID string    `json:"project_id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	MailtoURL string    `json:"mailto_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Launcher hands composes off to the message queue. It does not wait for delivery.
type Launcher struct {
	pub     jsonPublisher
	routing map[mail.Kind]string
	now     func() time.Time
}

func NewLauncher(pub jsonPublisher, cfg *config.Config) *Launcher {
	return &Launcher{
		pub: pub,
		routing: map[mail.Kind]string{
			mail.KindRequest:  cfg.RabbitMQ.RoutingKey.LetterComposeRequest,
			mail.KindReminder: cfg.RabbitMQ.RoutingKey.LetterComposeReminder,
		},
		now: time.Now,
	}
}

func (l *Launcher) OpenCompose(ctx context.Context, projectID string, kind mail.Kind, c mail.Compose) error {
	return l.pub.PublishJSON(ctx, l.routing[kind], ComposeEvent{
		Kind:      kind,
		ProjectID: projectID,
		To:        c.To,
		Subject:   c.Subject,
		Body:      c.Body,
		MailtoURL: c.MailtoURL(),
		CreatedAt: l.now(),
	})
}
