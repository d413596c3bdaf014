package pay

import (
	"context"
	"errors"
	"fmt"
	"os"

	"vestire/models"

	"github.com/guonaihong/gout"
)

// ErrPaymentNotFound marks a payment id the provider does not know. Webhook
// handling acks these instead of forcing a redelivery loop.
var ErrPaymentNotFound = errors.New("payment not found")

// Client is the payment provider surface the service needs.
type Client interface {
	CreatePreference(ctx context.Context, pref models.Preference) (models.CreatedPreference, error)
	GetPayment(ctx context.Context, paymentID string) (models.Payment, error)
}

const defaultMercadoPagoBaseURL = "https://api.mercadopago.com"

// MercadoPago talks to the MercadoPago REST API.
type MercadoPago struct {
	BaseURL     string
	AccessToken string
}

// NewMercadoPago builds a client from MP_ACCESS_TOKEN.
func NewMercadoPago() *MercadoPago {
	return &MercadoPago{
		BaseURL:     defaultMercadoPagoBaseURL,
		AccessToken: os.Getenv("MP_ACCESS_TOKEN"),
	}
}

func (m *MercadoPago) headers() gout.H {
	return gout.H{
		"Authorization": "Bearer " + m.AccessToken,
		"Content-Type":  "application/json",
	}
}

// CreatePreference submits a checkout preference and returns its redirect
// init point.
func (m *MercadoPago) CreatePreference(ctx context.Context, pref models.Preference) (models.CreatedPreference, error) {
	var created models.CreatedPreference
	var code int

	err := gout.POST(m.BaseURL + "/checkout/preferences").
		WithContext(ctx).
		SetHeader(m.headers()).
		SetJSON(pref).
		BindJSON(&created).
		Code(&code).
		Do()
	if err != nil {
		return created, err
	}
	if code < 200 || code > 299 {
		return created, fmt.Errorf("preference rejected with status %d", code)
	}
	if created.InitPoint == "" {
		return created, errors.New("preference response missing init_point")
	}
	return created, nil
}

// GetPayment fetches the authoritative payment record for a webhook payload.
func (m *MercadoPago) GetPayment(ctx context.Context, paymentID string) (models.Payment, error) {
	var payment models.Payment
	var code int

	err := gout.GET(m.BaseURL + "/v1/payments/" + paymentID).
		WithContext(ctx).
		SetHeader(m.headers()).
		BindJSON(&payment).
		Code(&code).
		Do()
	if err != nil {
		return payment, err
	}
	if code == 404 {
		return payment, ErrPaymentNotFound
	}
	if code < 200 || code > 299 {
		return payment, fmt.Errorf("payment lookup failed with status %d", code)
	}
	return payment, nil
}
