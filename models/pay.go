package models

import "time"

// Preference is the provider-facing description of a payable order.
type Preference struct {
	ExternalReference string           `json:"external_reference"`
	Items             []PreferenceItem `json:"items"`
	Payer             PreferencePayer  `json:"payer"`
	PaymentMethods    PaymentMethods   `json:"payment_methods"`
	BackURLs          BackURLs         `json:"back_urls"`
	AutoReturn        string           `json:"auto_return"`
}

type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type PreferencePayer struct {
	Email string `json:"email"`
}

type PaymentMethods struct {
	ExcludedPaymentTypes []PaymentType `json:"excluded_payment_types"`
	Installments         int           `json:"installments"`
}

type PaymentType struct {
	ID string `json:"id"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// CreatedPreference is the provider response to a preference submission.
type CreatedPreference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// Payment is the authoritative payment record fetched back from the provider
// during webhook reconciliation.
type Payment struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

// WebhookNotification is the asynchronous payload the provider delivers.
type WebhookNotification struct {
	Type     string      `json:"type"`
	LiveMode bool        `json:"live_mode"`
	Data     WebhookData `json:"data"`
}

type WebhookData struct {
	ID string `json:"id"`
}

// IdempotencyRecord represents an idempotency key record stored in Mongo.
type IdempotencyRecord struct {
	Key         string                 `bson:"key" json:"key"`
	Method      string                 `bson:"method" json:"method"`
	Path        string                 `bson:"path" json:"path"`
	UserID      string                 `bson:"userid" json:"userid"`
	RequestHash string                 `bson:"request_hash" json:"request_hash"`
	Response    map[string]interface{} `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt   time.Time              `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time              `bson:"expires_at" json:"expires_at"`
}
