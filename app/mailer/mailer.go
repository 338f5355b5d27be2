package mailer

import (
	"fmt"

	"todoapi/config"

	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers notification mail over SMTP. It satisfies
// service.Mailer.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *SMTPMailer) SendPasswordReset(to, resetLink string) error {
	body := fmt.Sprintf(
		"<p>You requested a password reset.</p>"+
			"<p>Follow <a href=%q>this link</a> to choose a new password. "+
			"The link expires shortly after it was requested.</p>"+
			"<p>If you did not request this, you can ignore this email.</p>",
		resetLink,
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password reset")
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	return d.DialAndSend(msg)
}
