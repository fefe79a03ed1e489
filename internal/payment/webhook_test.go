package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifier_VerifyAndParse(t *testing.T) {
	secret := "whsec_test_secret"
	v := NewVerifier(secret, 5*time.Minute)
	payload := []byte(`{"id":"evt_1","type":"payment.succeeded","data":{"reference":"pay_9","order_id":42,"amount":100000,"currency":"COP"}}`)

	t.Run("Valid signature", func(t *testing.T) {
		header := SignatureHeader(time.Now().Unix(), payload, secret)

		event, err := v.VerifyAndParse(payload, header)
		assert.NoError(t, err)
		assert.Equal(t, EventPaymentSucceeded, event.Type)
		assert.Equal(t, int64(42), event.Data.OrderID)
		assert.Equal(t, int64(100000), event.Data.Amount)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		header := SignatureHeader(time.Now().Unix(), payload, "other_secret")

		_, err := v.VerifyAndParse(payload, header)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Tampered payload", func(t *testing.T) {
		header := SignatureHeader(time.Now().Unix(), payload, secret)
		tampered := []byte(`{"id":"evt_1","type":"payment.succeeded","data":{"reference":"pay_9","order_id":42,"amount":1,"currency":"COP"}}`)

		_, err := v.VerifyAndParse(tampered, header)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("Stale timestamp", func(t *testing.T) {
		old := time.Now().Add(-1 * time.Hour).Unix()
		header := SignatureHeader(old, payload, secret)

		_, err := v.VerifyAndParse(payload, header)
		assert.ErrorIs(t, err, ErrStaleTimestamp)
	})

	t.Run("Malformed header", func(t *testing.T) {
		_, err := v.VerifyAndParse(payload, "not-a-signature")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}
