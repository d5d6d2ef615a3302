package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/go-identity-directory/pkg/mailer/templates"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Worker turns queued EmailJobs into sent emails.
type Worker struct {
	Sender      Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

// ErrPermanent marks a job that will never succeed and must not be requeued.
var ErrPermanent = errors.New("permanent email job failure")

// Handle processes one queue message. Errors wrapping ErrPermanent mean the
// message should be dropped; other errors mean it should be retried.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrPermanent)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
		}
		subject, text, html = s, t, h
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if w.Logger != nil {
		w.Logger.WithFields(logrus.Fields{"template": job.Template, "to": job.To}).Info("email sent")
	}
	return nil
}
