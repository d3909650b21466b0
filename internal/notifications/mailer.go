package notifications

import (
	"gopkg.in/gomail.v2"

	"github.com/procifarmed/storefront-api/pkg/config"
)

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// NewDialer builds the SMTP sender, or nil when mail is disabled.
func NewDialer(cfg config.MailConfig) Sender {
	if !cfg.Enabled() {
		return nil
	}
	return gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
}
