package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/dto"
)

// mailTemplates holds subject and body per event key. Bodies are inline so
// the mailer binary has no runtime file dependencies.
var mailTemplates = map[string]struct {
	subject string
	body    string
}{
	dto.EventApplicationOverPassed: {
		subject: "Your application passed",
		body: `<p>Hi {{.Name}},</p>
<p>The application phase is over and you passed all assignments. You are now in the selection pool, we will draw seats soon and keep you posted.</p>`,
	},
	dto.EventApplicationOverFailed: {
		subject: "Your application result",
		body: `<p>Hi {{.Name}},</p>
<p>The application phase is over. Unfortunately you did not pass all assignments this time. We hope to see you again next edition.</p>`,
	},
	dto.EventSelectedPayment: {
		subject: "You got a seat - payment details",
		body: `<p>Hi {{.Name}},</p>
<p>You were selected for a seat. To confirm it, please transfer <strong>{{.PaymentValue}} EUR</strong> before <strong>{{.PaymentDueDate}}</strong> and upload the payment proof in your candidate portal.</p>`,
	},
	dto.EventSelectedInterview: {
		subject: "You got a seat - interview details",
		body: `<p>Hi {{.Name}},</p>
<p>You were selected for a scholarship seat. The next step is a short interview, we will reach out to schedule it.</p>`,
	},
	dto.EventNotSelected: {
		subject: "Admissions result",
		body: `<p>Hi {{.Name}},</p>
<p>Admissions are now closed and we could not offer you a seat this edition. Thank you for applying, we hope to see you again.</p>`,
	},
	dto.EventInterviewPassed: {
		subject: "Interview result",
		body: `<p>Hi {{.Name}},</p>
<p>Good news, you passed the interview. Payment details for your seat follow in a separate email.</p>`,
	},
	dto.EventInterviewFailed: {
		subject: "Interview result",
		body: `<p>Hi {{.Name}},</p>
<p>Unfortunately we could not offer you a seat after the interview.</p>
{{if .Message}}<p>{{.Message}}</p>{{end}}`,
	},
	dto.EventPaymentAccepted: {
		subject: "Payment accepted - welcome",
		body: `<p>Hi {{.Name}},</p>
<p>Your payment was accepted. Your seat is confirmed, welcome aboard!</p>`,
	},
	dto.EventPaymentRefused: {
		subject: "Payment refused",
		body: `<p>Hi {{.Name}},</p>
<p>We could not accept your payment and your seat was released.</p>
{{if .Message}}<p>{{.Message}}</p>{{end}}`,
	},
	dto.EventPaymentNeedsProof: {
		subject: "Additional payment proof needed",
		body: `<p>Hi {{.Name}},</p>
<p>We need additional proof for your payment. Please upload the missing documents in your candidate portal and submit them again.</p>
{{if .Message}}<p>{{.Message}}</p>{{end}}`,
	},
}

type MailService struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	mailFrom     string
	mailFromName string
}

func NewMailService(smtpHost, smtpPort, smtpUser, smtpPassword, mailFrom, mailFromName string) *MailService {
	return &MailService{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		mailFrom:     mailFrom,
		mailFromName: mailFromName,
	}
}

// SendEvent renders the template for the event key and delivers it.
func (s *MailService) SendEvent(eventKey string, event dto.NotificationEvent) error {
	tpl, ok := mailTemplates[eventKey]
	if !ok {
		return fmt.Errorf("no mail template for event %q", eventKey)
	}

	tmpl, err := template.New(eventKey).Parse(tpl.body)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, event); err != nil {
		return err
	}

	fromHeader := fmt.Sprintf("%s <%s>", s.mailFromName, s.mailFrom)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", event.Email),
		fmt.Sprintf("Subject: %s", tpl.subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		buf.String(),
	}, "\r\n")

	log.Printf("[MAIL] smtp sending to=%s event=%s", event.Email, eventKey)

	if err := s.sendSMTPWithTimeout(event.Email, []byte(msg)); err != nil {
		return err
	}

	log.Printf("[MAIL] sent to=%s", event.Email)
	return nil
}

func (s *MailService) sendSMTPWithTimeout(to string, msg []byte) error {
	addr := net.JoinHostPort(s.smtpHost, s.smtpPort)

	conn, err := net.DialTimeout("tcp", addr, 8*time.Second)
	if err != nil {
		return err
	}
	// deadline covers the whole session, not just the dial
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, s.smtpHost)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.smtpHost}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(s.mailFrom); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
