// Package service holds background services that run outside the
// request path
package service

import (
	"errors"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// ThankYouMail is a queued notification to a repeat donor.
type ThankYouMail struct {
	To              string
	BeneficiaryName string
}

// Mailer sends thank-you notifications over SMTP.
type Mailer struct {
	host     string
	port     int
	sender   string
	password string
}

func NewMailer() *Mailer {
	return &Mailer{
		host:     viper.GetString("mail.host"),
		port:     viper.GetInt("mail.port"),
		sender:   viper.GetString("mail.sender"),
		password: viper.GetString("mail.password"),
	}
}

// Configured reports whether SMTP credentials were provided. Without
// them notifications are dropped instead of erroring the queue.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.sender != ""
}

func (m *Mailer) SendThankYou(job *ThankYouMail) error {
	if job.To == m.sender {
		return errors.New("invalid email address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", job.To)
	msg.SetHeader("Subject", "Thank you for your donations")
	msg.SetBody("text/html", thankYouTemplate(job.BeneficiaryName))

	d := gomail.NewDialer(m.host, m.port, m.sender, m.password)

	return d.DialAndSend(msg)
}
