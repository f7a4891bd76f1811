// Package notify sends customer notifications.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// Notifier tells customers about their orders.
type Notifier interface {
	OrderConfirmed(ctx context.Context, order *model.Order) error
}

// Nop is the Notifier used when mail is not configured.
type Nop struct{}

func (Nop) OrderConfirmed(context.Context, *model.Order) error { return nil }

// sender delivers a prepared message.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// MailNotifier sends HTML e-mails over SMTP.
type MailNotifier struct {
	client sender
	from   string
	logger zerolog.Logger
}

// NewMailNotifier creates an SMTP notifier from cfg.
func NewMailNotifier(cfg config.SMTPConfig, logger zerolog.Logger) (*MailNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return newMailNotifier(client, cfg.From, logger), nil
}

func newMailNotifier(client sender, from string, logger zerolog.Logger) *MailNotifier {
	return &MailNotifier{
		client: client,
		from:   from,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>Your order is being prepared</h2>
	<p>Order <strong>{{.ID}}</strong> has been paid and is now being prepared.</p>
	<table style="border-collapse: collapse;">
		<tr><th align="left">Product</th><th>Qty</th><th align="right">Price</th></tr>
		{{range .Products}}<tr><td>{{.Title}}{{range .Options}} ({{.Title}}){{end}}</td><td align="center">{{.Quantity}}</td><td align="right">{{.Subtotal.StringFixed 2}}</td></tr>
		{{end}}
	</table>
	<p><strong>Total: {{.Price.StringFixed 2}}</strong></p>
</body>
</html>`))

// RenderConfirmation renders the order-confirmation body.
func RenderConfirmation(order *model.Order) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("failed to render confirmation: %w", err)
	}
	return buf.String(), nil
}

// OrderConfirmed e-mails the order owner that payment was received.
func (n *MailNotifier) OrderConfirmed(ctx context.Context, order *model.Order) error {
	body, err := RenderConfirmation(order)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(order.UserEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject("Order confirmation")
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		n.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to send confirmation")
		return fmt.Errorf("failed to send confirmation: %w", err)
	}

	n.logger.Info().Str("order_id", order.ID.String()).Msg("confirmation e-mail sent")
	return nil
}
