// Package notify delivers best-effort outbound notifications.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
	"github.com/Faroffcode/gst-zen-lovable-sub000/pkg/logger"
)

// WebhookNotifier POSTs created invoices as JSON to a configured URL.
// Delivery is fire-and-forget: failures are logged and never affect the
// invoice workflow. There is no retry.
type WebhookNotifier struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewWebhookNotifier builds a notifier for the given URL.
func NewWebhookNotifier(url string, timeout time.Duration, log *logger.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// InvoiceCreated delivers the invoice payload in the background.
func (n *WebhookNotifier) InvoiceCreated(_ context.Context, invoice *dto.InvoiceResponse) {
	payload, err := json.Marshal(invoice)
	if err != nil {
		n.log.Warn().Err(err).Msg("webhook payload marshal failed")
		return
	}
	// detached from the request context so an early client disconnect
	// does not cancel delivery
	go n.deliver(invoice.InvoiceNumber, payload)
}

func (n *WebhookNotifier) deliver(invoiceNumber string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), n.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		n.log.Warn().Err(err).Msg("webhook request build failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn().Err(err).Str("invoice_number", invoiceNumber).Msg("webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.log.Warn().
			Int("status", resp.StatusCode).
			Str("invoice_number", invoiceNumber).
			Msg("webhook delivery rejected")
		return
	}
	n.log.Debug().Str("invoice_number", invoiceNumber).Msg("webhook delivered")
}
