package http

import (
	"io"
	"net/http"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/payment"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// WebhookHandler receives payment gateway callbacks. The signature is
// verified against the raw body before anything is parsed.
type WebhookHandler struct {
	verifier        *payment.Verifier
	checkoutService service.CheckoutService
}

func NewWebhookHandler(verifier *payment.Verifier, checkoutService service.CheckoutService) *WebhookHandler {
	return &WebhookHandler{
		verifier:        verifier,
		checkoutService: checkoutService,
	}
}

func (h *WebhookHandler) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	event, err := h.verifier.VerifyAndParse(body, r.Header.Get("Gateway-Signature"))
	if err != nil {
		logger.Warn("Rejected webhook with bad signature", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	switch event.Type {
	case payment.EventPaymentSucceeded:
		err = h.checkoutService.HandlePaymentSucceeded(r.Context(), event.Data.OrderID, event.Data.Reference)
	case payment.EventPaymentFailed:
		err = h.checkoutService.HandlePaymentFailed(r.Context(), event.Data.OrderID, event.Data.Reason)
	default:
		// Unknown event types are acknowledged so the gateway stops
		// redelivering them.
		logger.Info("Ignoring unhandled webhook event", "type", event.Type, "event_id", event.ID)
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	if err != nil {
		if err == service.ErrNotFound {
			writeError(w, http.StatusNotFound, "unknown order")
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
