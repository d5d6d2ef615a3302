package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/go-identity-directory/internal/domain/entity"
	"github.com/oksasatya/go-identity-directory/internal/domain/repository"
	"github.com/oksasatya/go-identity-directory/pkg/mailer"
	mailtpl "github.com/oksasatya/go-identity-directory/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier queues notification emails for the email worker. Publishing
// is bounded by a short timeout so a slow broker never stalls a request.
type EmailNotifier struct {
	pub       Publisher
	brand     mailtpl.Brand
	verifyTTL time.Duration
	timeout   time.Duration
	now       func() time.Time
}

func NewEmailNotifier(pub Publisher, brand mailtpl.Brand, verifyTTL time.Duration) *EmailNotifier {
	return &EmailNotifier{pub: pub, brand: brand, verifyTTL: verifyTTL, timeout: 3 * time.Second, now: time.Now}
}

func (n *EmailNotifier) AccountCreated(ctx context.Context, u *entity.User, verifyURL string) error {
	var opts []mailtpl.Option
	if verifyURL != "" && n.verifyTTL > 0 {
		opts = append(opts, mailtpl.WithExpiresAt(n.now().Add(n.verifyTTL)))
	}
	data := mailtpl.NewAccountCreatedData(n.brand, u.DisplayName(), u.Email, u.Role.String(), verifyURL, opts...)
	return n.publish(ctx, mailer.EmailJob{To: u.Email, Template: mailtpl.AccountCreated, Data: data})
}

func (n *EmailNotifier) ProfessionalStatusChanged(ctx context.Context, u *entity.User) error {
	data := mailtpl.NewProfessionalStatusData(n.brand, u.DisplayName(), u.Email, u.IsProfessional)
	return n.publish(ctx, mailer.EmailJob{To: u.Email, Template: mailtpl.ProfessionalStatus, Data: data})
}

func (n *EmailNotifier) publish(ctx context.Context, job mailer.EmailJob) error {
	c, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.pub.PublishJSON(c, job); err != nil {
		return fmt.Errorf("publish %s email: %w", job.Template, err)
	}
	return nil
}

// Disabled drops every notification; used when MAIL_SEND_ENABLED=false.
type Disabled struct{}

func (Disabled) AccountCreated(context.Context, *entity.User, string) error { return nil }
func (Disabled) ProfessionalStatusChanged(context.Context, *entity.User) error { return nil }

var (
	_ repository.Notifier = (*EmailNotifier)(nil)
	_ repository.Notifier = Disabled{}
)
