// Package managers handles the sending of emails using the Mailgun service
// and the Hermes package for email formatting.
package managers

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr is an interface that outlines the contract for email management.
type MailMgr interface {
	SendWelcomeMail(ctx context.Context, email, username string) error
}

// MailManager uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes     *hermes.Hermes
	Mailgun    mailgun.Mailgun
	production bool
	from       string
}

// SendWelcomeMail greets a freshly registered user. Outside production the mail is only logged.
func (mm *MailManager) SendWelcomeMail(ctx context.Context, email, username string) error {
	if !mm.production {
		log.Info("Skipping welcome mail in development mode")
		return nil
	}

	emailBody, err := mm.welcomeMailBody(username)
	if err != nil {
		return err
	}

	message := mm.Mailgun.NewMessage(mm.from, "Welcome to Yool", "", email)
	message.SetHtml(emailBody)
	_, _, err = mm.Mailgun.Send(ctx, message)
	if err != nil {
		log.Warning("Error sending welcome mail: " + err.Error())
		return err
	}
	log.Debug("Welcome mail sent to ", email)

	return nil
}

func (mm *MailManager) welcomeMailBody(username string) (string, error) {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: username,
			Intros: []string{
				"Welcome to Yool! We're very excited to have you on board.",
				"Set your location in the app to discover the events around you.",
			},
			Outros: []string{
				"If you have any questions, feel free to reach out to us at any time via team@mail.yool.app.",
			},
		},
	}

	return mm.Hermes.GenerateHTML(mailBody)
}

// NewMailManager initializes a new MailManager for the given Mailgun domain.
// Mails are only sent when production is true.
func NewMailManager(domain, apiKey string, production bool) MailMgr {
	log.Info("Initializing mail manager")
	if !production {
		log.Println("Running in development mode, email will not be sent to users")
	}

	mailgunInstance := mailgun.NewMailgun(domain, apiKey)
	mailgunInstance.SetAPIBase(mailgun.APIBaseEU)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:      "Yool",
				Link:      "https://yool.app/",
				Copyright: "© Yool",
			},
		},
		Mailgun:    mailgunInstance,
		production: production,
		from:       fmt.Sprintf("Yool <team@%s>", domain),
	}
	log.Info("Initialized mail manager")
	return mm
}
