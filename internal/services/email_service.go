package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendTaskAssigned(to string, notice TaskNotice) error
}

// MailSender is the part of gomail.Dialer used here.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer MailSender
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	return NewEmailServiceWithSender(gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword), fromEmail)
}

func NewEmailServiceWithSender(sender MailSender, fromEmail string) EmailService {
	return &emailService{dialer: sender, from: fromEmail}
}

func (s *emailService) SendTaskAssigned(to string, notice TaskNotice) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", notice.Subject())
	m.SetBody("text/html", taskNoticeHTML(notice))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send task email: %w", err)
	}
	return nil
}

func taskNoticeHTML(n TaskNotice) string {
	body := fmt.Sprintf(`
		<h3>%s</h3>
		<p>%s さん</p>
		<ul>
			<li>日程: %s %s〜%s</li>
			<li>物品: %s × %d</li>
			<li>搬入元: %s</li>
			<li>搬入先: %s</li>
		</ul>
	`,
		html.EscapeString(n.Subject()),
		html.EscapeString(n.LeaderName),
		html.EscapeString(n.EventDay.Label()), html.EscapeString(n.Start), html.EscapeString(n.End),
		html.EscapeString(n.ItemName), n.Quantity,
		html.EscapeString(n.FromLocation),
		html.EscapeString(n.ToLocation),
	)
	if n.Note != "" {
		body += fmt.Sprintf("<p>備考: %s</p>", html.EscapeString(n.Note))
	}
	return body
}
