package templates

import (
	"time"
)

// Brand carries the company details every email footer shows.
type Brand struct {
	CompanyName    string
	CompanyAddress string
	AppName        string
	LogoURL        string
	SupportURL     string
	PrivacyURL     string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04") }
}

func WithVerifyURL(url string) Option { return func(d *EmailData) { d.VerifyURL = url } }

func WithRole(role string) Option { return func(d *EmailData) { d.Role = role } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04")
	}
}

// NewBaseEmailData fills the shared fields from b and then applies opts.
func NewBaseEmailData(b Brand, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		AppName:        b.AppName,

		LogoURL:    b.LogoURL,
		SupportURL: b.SupportURL,
		PrivacyURL: b.PrivacyURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewAccountCreatedData(b Brand, name, email, role, verifyURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithRole(role), WithVerifyURL(verifyURL)}, opts...)
	return ToMap(NewBaseEmailData(b, AccountCreated, name, email, opts...))
}

func NewProfessionalStatusData(b Brand, name, email string, professional bool, opts ...Option) map[string]any {
	d := NewBaseEmailData(b, ProfessionalStatus, name, email, opts...)
	d.Professional = professional
	return ToMap(d)
}
