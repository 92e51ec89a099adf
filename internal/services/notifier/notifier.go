// Package notifier превращает доменные события из очереди в письма пользователям.
package notifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/newsroom/internal/lib/sl"
	"github.com/magabrotheeeer/newsroom/internal/lib/smtp"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// Transport открывает SMTP-сессию.
type Transport interface {
	Connect() (smtp.Client, error)
	Sender() string
}

// NotifierService отправляет уведомления о модерации и покупке подписки.
type NotifierService struct {
	transport Transport
	log       *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(transport Transport, log *slog.Logger) *NotifierService {
	return &NotifierService{
		transport: transport,
		log:       log,
	}
}

// ArticleModerated сообщает автору о решении модератора.
func (s *NotifierService) ArticleModerated(body []byte) error {
	const op = "notifier.ArticleModerated"

	var event models.ArticleModerated
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}
	if event.AuthorEmail == "" {
		return fmt.Errorf("%s: event without author email", op)
	}

	var subject, text string
	switch event.Status {
	case models.StatusApproved:
		subject = "Ваша статья опубликована"
		text = "Здравствуйте!\n\nМодератор одобрил вашу статью, теперь она доступна читателям."
	case models.StatusRejected:
		subject = "Ваша статья отклонена"
		text = "Здравствуйте!\n\nМодератор отклонил вашу статью."
		if event.Feedback != nil && *event.Feedback != "" {
			text += "\n\nКомментарий модератора: " + *event.Feedback
		}
	default:
		return fmt.Errorf("%s: unexpected status %q", op, event.Status)
	}

	if err := s.sendEmail([]string{event.AuthorEmail}, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SubscriptionPurchased отправляет квитанцию о покупке плана.
func (s *NotifierService) SubscriptionPurchased(body []byte) error {
	const op = "notifier.SubscriptionPurchased"

	var event models.SubscriptionPurchased
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}
	if event.Email == "" {
		return fmt.Errorf("%s: event without email", op)
	}

	subject := "Подписка оформлена"
	text := fmt.Sprintf("Здравствуйте!\n\nПлан %s активен до %s (UTC).\n\nСпасибо, что читаете нас.",
		event.Plan, event.PremiumValid.UTC().Format(time.DateTime))

	if err := s.sendEmail([]string{event.Email}, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.Sender()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Quit соединение уже закрыто
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from %s: %w", from, err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("rcpt to %s: %w", addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	if err := client.Quit(); err != nil {
		s.log.Warn("smtp quit failed", sl.Err(err))
	}

	s.log.Info("email sent", slog.Any("to", to), slog.String("subject", subject))
	return nil
}
