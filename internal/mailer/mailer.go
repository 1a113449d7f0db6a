package mailer

import "gopkg.in/gomail.v2"

// Mailer sends notification mail for listing lifecycle events.
type Mailer interface {
	SendAccommodationCreated(toEmail, title string) error
}

// SMTPMailer delivers mail over SMTP.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password}
}

func (m *SMTPMailer) SendAccommodationCreated(toEmail, title string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "New Accommodation Listed")
	msg.SetBody("text/plain", "Your accommodation '"+title+"' has been listed successfully.")

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
