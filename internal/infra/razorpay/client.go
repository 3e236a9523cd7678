// Package razorpay wraps the Razorpay SDK behind the small surface the
// billing service needs.
package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	razorpay "github.com/razorpay/razorpay-go"
)

type Client struct {
	api *razorpay.Client
}

func New(keyID, keySecret string) *Client {
	return &Client{api: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder creates a gateway order and returns its id. Amount is in
// paise, per the Razorpay API.
func (c *Client) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	order, err := c.api.Order.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}, nil)
	if err != nil {
		return "", err
	}
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", errors.New("razorpay: order response missing id")
	}
	return id, nil
}

// VerifySignature recomputes the checkout signature Razorpay sends after
// capture: HMAC-SHA256 over "<order_id>|<payment_id>" keyed with the API
// secret.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
