package service

import (
	"tweet-web-server/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// SMTPSender отправляет html-письма через SMTP
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg *config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(to, subject, messageText string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", messageText)

	return s.dialer.DialAndSend(message)
}

// SendWithRetries повторяет отправку ограниченное число раз без пауз.
// Исчерпанные попытки логируются и не отдаются наружу: сбой почты
// не должен ломать операцию, которая её инициировала.
func (s *SMTPSender) SendWithRetries(to, subject, messageText string, retries int) {
	sendWithRetries(s, to, subject, messageText, retries)
}

// MockSender пишет письма в лог вместо отправки; используется вне production
type MockSender struct{}

func NewMockSender() *MockSender {
	return &MockSender{}
}

func (s *MockSender) Send(to, subject, messageText string) error {
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("отправка письма (mock)")
	return nil
}

func (s *MockSender) SendWithRetries(to, subject, messageText string, retries int) {
	sendWithRetries(s, to, subject, messageText, retries)
}

type sender interface {
	Send(to, subject, messageText string) error
}

func sendWithRetries(s sender, to, subject, messageText string, retries int) {
	for attempt := 0; attempt < retries; attempt++ {
		err := s.Send(to, subject, messageText)
		if err == nil {
			return
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"attempt": attempt,
		}).Warn("ошибка отправки письма")
	}
}
