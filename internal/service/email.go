package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)
	return nil
}

func (s *emailService) SendOrderConfirmation(ctx context.Context, email, name string, orderID int64, keys []string) error {
	subject := fmt.Sprintf("Order #%d confirmed", orderID)

	var keyLines strings.Builder
	for _, k := range keys {
		keyLines.WriteString(fmt.Sprintf("<li><code>%s</code></li>", k))
	}

	plainText := fmt.Sprintf("Your order #%d is confirmed. Your license keys: %s", orderID, strings.Join(keys, ", "))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Thank you for your purchase!</h2>
				<p>Your order <strong>#%d</strong> has been confirmed.</p>
				<p>Your license keys:</p>
				<ul>%s</ul>
			</body>
		</html>
	`, orderID, keyLines.String())

	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendRefundProcessed(ctx context.Context, email, name string, returnID, moneyRefund, pointsRefund int64) error {
	subject := fmt.Sprintf("Refund for return #%d processed", returnID)

	plainText := fmt.Sprintf("Your return #%d has been approved. Refunded: $%d and %d points.", returnID, moneyRefund, pointsRefund)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Refund processed</h2>
				<p>Your return <strong>#%d</strong> has been approved.</p>
				<p>Money refunded: <strong>$%d</strong></p>
				<p>Points returned to your balance: <strong>%d</strong></p>
			</body>
		</html>
	`, returnID, moneyRefund, pointsRefund)

	return s.send(ctx, email, name, subject, plainText, htmlContent)
}
