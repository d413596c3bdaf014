package pay

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"vestire/models"
	"vestire/mq"
	"vestire/orders"
	"vestire/utils"

	"github.com/julienschmidt/httprouter"
)

const (
	currencyARS   = "ARS"
	fallbackPayer = "test_user@test.com"
)

// Service orchestrates checkout preference creation and webhook
// reconciliation against an injected provider client and order store.
type Service struct {
	mp          Client
	orders      OrderStore
	frontendURL string
	notify      func(ctx context.Context, order models.Order)
}

// NewService wires a payment service. Back URLs point at FRONTEND_URL.
func NewService(mp Client, store OrderStore) *Service {
	return &Service{
		mp:          mp,
		orders:      store,
		frontendURL: os.Getenv("FRONTEND_URL"),
		notify: func(ctx context.Context, order models.Order) {
			orders.NotifyStatus(order.OrderID, models.StatusPaid)
			mq.Emit(ctx, mq.Event{
				Name:    "order-paid",
				OrderID: order.OrderID,
				UserID:  order.UserID,
				Status:  models.StatusPaid,
			})
		},
	}
}

func (s *Service) buildPreference(order models.Order, payerEmail string) models.Preference {
	items := make([]models.PreferenceItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, models.PreferenceItem{
			Title:      it.ProductName,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			CurrencyID: currencyARS,
		})
	}
	if payerEmail == "" {
		payerEmail = fallbackPayer
	}
	return models.Preference{
		ExternalReference: order.OrderID,
		Items:             items,
		Payer:             models.PreferencePayer{Email: payerEmail},
		PaymentMethods: models.PaymentMethods{
			ExcludedPaymentTypes: []models.PaymentType{{ID: "ticket"}},
			Installments:         1,
		},
		BackURLs: models.BackURLs{
			Success: s.frontendURL + "/checkout/success",
			Failure: s.frontendURL + "/checkout/failure",
			Pending: s.frontendURL + "/checkout/pending",
		},
		AutoReturn: "approved",
	}
}

// CreateCheckout builds a provider preference for one of the caller's
// pending orders and returns the redirect init point.
func (s *Service) CreateCheckout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("id")

	order, err := s.orders.Get(ctx, orderID)
	if err != nil || order.UserID != userID {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.Status != models.StatusPending {
		utils.RespondWithError(w, http.StatusBadRequest, "This order was already paid")
		return
	}

	pref := s.buildPreference(order, utils.GetUserEmailFromRequest(r))
	created, err := s.mp.CreatePreference(ctx, pref)
	if err != nil {
		log.Printf("CreateCheckout preference error for order %s: %v", orderID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create payment preference")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"order_id":   order.OrderID,
		"init_point": created.InitPoint,
	})
}

// Webhook receives provider notifications. Only payment events matter; all
// other types are acked so the provider stops redelivering. A 500 is
// returned only when the provider lookup or the order write failed, which
// asks the provider to deliver the notification again.
func (s *Service) Webhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	var note models.WebhookNotification
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification payload")
		return
	}

	if note.Type != "payment" {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Notification ignored"})
		return
	}
	if note.Data.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Notification is missing the payment id")
		return
	}

	// Sandbox notifications carry no real payment. The id is the order id.
	if !note.LiveMode {
		if err := s.markPaid(ctx, note.Data.ID); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record payment")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Payment processed"})
		return
	}

	payment, err := s.mp.GetPayment(ctx, note.Data.ID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Unknown payment acknowledged"})
			return
		}
		log.Printf("Webhook payment lookup error for %s: %v", note.Data.ID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to verify payment")
		return
	}

	if payment.Status == "approved" {
		if err := s.markPaid(ctx, payment.ExternalReference); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record payment")
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Payment processed"})
}

// markPaid flips the order and fans out the status change. The write is
// idempotent so redelivered notifications are harmless. A store failure is
// returned so the webhook can 500 and the provider redelivers.
func (s *Service) markPaid(ctx context.Context, orderID string) error {
	matched, err := s.orders.MarkPaid(ctx, orderID)
	if err != nil {
		log.Printf("markPaid error for order %s: %v", orderID, err)
		return err
	}
	if !matched {
		return nil
	}
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		order = models.Order{OrderID: orderID}
	}
	if s.notify != nil {
		s.notify(ctx, order)
	}
	return nil
}
