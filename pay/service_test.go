package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vestire/globals"
	"vestire/models"

	"github.com/julienschmidt/httprouter"
)

type fakeClient struct {
	lastPref   models.Preference
	prefCalls  int
	prefResult models.CreatedPreference
	prefErr    error

	payment    models.Payment
	paymentErr error
	getCalls   int
}

func (f *fakeClient) CreatePreference(_ context.Context, pref models.Preference) (models.CreatedPreference, error) {
	f.prefCalls++
	f.lastPref = pref
	return f.prefResult, f.prefErr
}

func (f *fakeClient) GetPayment(_ context.Context, _ string) (models.Payment, error) {
	f.getCalls++
	return f.payment, f.paymentErr
}

type fakeStore struct {
	orders    map[string]models.Order
	paidCalls []string
	paidErr   error
}

func (f *fakeStore) Get(_ context.Context, orderID string) (models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeStore) MarkPaid(_ context.Context, orderID string) (bool, error) {
	f.paidCalls = append(f.paidCalls, orderID)
	if f.paidErr != nil {
		return false, f.paidErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return false, nil
	}
	o.Status = models.StatusPaid
	f.orders[orderID] = o
	return true, nil
}

func newTestService(mp Client, store OrderStore) (*Service, *[]string) {
	var notified []string
	s := &Service{
		mp:          mp,
		orders:      store,
		frontendURL: "https://shop.test",
		notify: func(_ context.Context, order models.Order) {
			notified = append(notified, order.OrderID)
		},
	}
	return s, &notified
}

func pendingOrder(id, userID string) models.Order {
	return models.Order{
		OrderID: id,
		UserID:  userID,
		Status:  models.StatusPending,
		Items: []models.OrderItem{
			{ProductID: "p1", ProductName: "Remera negra", UnitPrice: 1500, Quantity: 2},
			{ProductID: "p2", ProductName: "Jean azul", UnitPrice: 9000, Quantity: 1, Size: "40"},
		},
		TotalAmount: 12000,
	}
}

func authedRequest(method, target string, body []byte, userID, email string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(r.Context(), globals.UserIDKey, userID)
	ctx = context.WithValue(ctx, globals.UserEmailKey, email)
	return r.WithContext(ctx)
}

func TestCreateCheckoutUnknownOrder(t *testing.T) {
	s, _ := newTestService(&fakeClient{}, &fakeStore{orders: map[string]models.Order{}})

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/orders/o404/pagar", nil, "u1", "a@b.com")
	s.CreateCheckout(w, r, httprouter.Params{{Key: "id", Value: "o404"}})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCreateCheckoutForeignOrderLooksMissing(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{"o1": pendingOrder("o1", "owner")}}
	s, _ := newTestService(&fakeClient{}, store)

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/orders/o1/pagar", nil, "intruder", "x@y.com")
	s.CreateCheckout(w, r, httprouter.Params{{Key: "id", Value: "o1"}})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCreateCheckoutAlreadyPaid(t *testing.T) {
	order := pendingOrder("o1", "u1")
	order.Status = models.StatusPaid
	store := &fakeStore{orders: map[string]models.Order{"o1": order}}
	mp := &fakeClient{}
	s, _ := newTestService(mp, store)

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/orders/o1/pagar", nil, "u1", "a@b.com")
	s.CreateCheckout(w, r, httprouter.Params{{Key: "id", Value: "o1"}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if mp.prefCalls != 0 {
		t.Error("expected no preference submission for a paid order")
	}
}

func TestCreateCheckoutBuildsPreference(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{"o1": pendingOrder("o1", "u1")}}
	mp := &fakeClient{prefResult: models.CreatedPreference{ID: "pref1", InitPoint: "https://mp.test/init"}}
	s, _ := newTestService(mp, store)

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/orders/o1/pagar", nil, "u1", "buyer@shop.test")
	s.CreateCheckout(w, r, httprouter.Params{{Key: "id", Value: "o1"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	pref := mp.lastPref
	if pref.ExternalReference != "o1" {
		t.Errorf("expected external_reference o1, got %q", pref.ExternalReference)
	}
	if len(pref.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(pref.Items))
	}
	if pref.Items[0].Title != "Remera negra" || pref.Items[0].UnitPrice != 1500 || pref.Items[0].Quantity != 2 {
		t.Errorf("unexpected first item %+v", pref.Items[0])
	}
	if pref.Items[0].CurrencyID != "ARS" {
		t.Errorf("expected ARS currency, got %q", pref.Items[0].CurrencyID)
	}
	if pref.Payer.Email != "buyer@shop.test" {
		t.Errorf("expected payer email from claims, got %q", pref.Payer.Email)
	}
	if len(pref.PaymentMethods.ExcludedPaymentTypes) != 1 || pref.PaymentMethods.ExcludedPaymentTypes[0].ID != "ticket" {
		t.Errorf("expected ticket excluded, got %+v", pref.PaymentMethods.ExcludedPaymentTypes)
	}
	if pref.PaymentMethods.Installments != 1 {
		t.Errorf("expected 1 installment, got %d", pref.PaymentMethods.Installments)
	}
	if pref.BackURLs.Success != "https://shop.test/checkout/success" {
		t.Errorf("unexpected success back url %q", pref.BackURLs.Success)
	}
	if pref.AutoReturn != "approved" {
		t.Errorf("expected auto_return approved, got %q", pref.AutoReturn)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["init_point"] != "https://mp.test/init" || resp["order_id"] != "o1" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestCreateCheckoutFallbackPayerEmail(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{"o1": pendingOrder("o1", "u1")}}
	mp := &fakeClient{prefResult: models.CreatedPreference{InitPoint: "https://mp.test/init"}}
	s, _ := newTestService(mp, store)

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/orders/o1/pagar", nil, "u1", "")
	s.CreateCheckout(w, r, httprouter.Params{{Key: "id", Value: "o1"}})

	if mp.lastPref.Payer.Email != "test_user@test.com" {
		t.Errorf("expected fallback payer email, got %q", mp.lastPref.Payer.Email)
	}
}

func TestCreateCheckoutProviderFailure(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{"o1": pendingOrder("o1", "u1")}}
	mp := &fakeClient{prefErr: context.DeadlineExceeded}
	s, _ := newTestService(mp, store)

	w := httptest.NewRecorder()
	r := authedRequest("POST", "/orders/o1/pagar", nil, "u1", "a@b.com")
	s.CreateCheckout(w, r, httprouter.Params{{Key: "id", Value: "o1"}})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func webhookBody(t *testing.T, note models.WebhookNotification) []byte {
	t.Helper()
	b, err := json.Marshal(note)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func postWebhook(s *Service, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/orders/webhook", bytes.NewReader(body))
	s.Webhook(w, r, nil)
	return w
}

func TestWebhookIgnoresOtherTypes(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{}}
	s, _ := newTestService(&fakeClient{}, store)

	w := postWebhook(s, webhookBody(t, models.WebhookNotification{Type: "merchant_order"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(store.paidCalls) != 0 {
		t.Error("expected no paid writes for a non-payment type")
	}
}

func TestWebhookMissingPaymentID(t *testing.T) {
	s, _ := newTestService(&fakeClient{}, &fakeStore{orders: map[string]models.Order{}})

	w := postWebhook(s, webhookBody(t, models.WebhookNotification{Type: "payment"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestWebhookSandboxTreatsIDAsOrder(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{"o1": pendingOrder("o1", "u1")}}
	mp := &fakeClient{}
	s, notified := newTestService(mp, store)

	note := models.WebhookNotification{Type: "payment", LiveMode: false, Data: models.WebhookData{ID: "o1"}}
	w := postWebhook(s, webhookBody(t, note))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mp.getCalls != 0 {
		t.Error("expected no provider lookup in sandbox mode")
	}
	if store.orders["o1"].Status != models.StatusPaid {
		t.Error("expected the order to be paid")
	}
	if len(*notified) != 1 || (*notified)[0] != "o1" {
		t.Errorf("expected one paid notification for o1, got %v", *notified)
	}
}

func TestWebhookSandboxRedeliveryIsIdempotent(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{"o1": pendingOrder("o1", "u1")}}
	s, _ := newTestService(&fakeClient{}, store)

	note := models.WebhookNotification{Type: "payment", LiveMode: false, Data: models.WebhookData{ID: "o1"}}
	first := postWebhook(s, webhookBody(t, note))
	second := postWebhook(s, webhookBody(t, note))

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200 on both deliveries, got %d and %d", first.Code, second.Code)
	}
	if store.orders["o1"].Status != models.StatusPaid {
		t.Error("expected the order to stay paid")
	}
}

func TestWebhookSandboxUnknownOrderStillAcks(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{}}
	s, notified := newTestService(&fakeClient{}, store)

	note := models.WebhookNotification{Type: "payment", LiveMode: false, Data: models.WebhookData{ID: "ghost"}}
	w := postWebhook(s, webhookBody(t, note))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(*notified) != 0 {
		t.Error("expected no notification for an unmatched order")
	}
}

func TestWebhookLiveApprovedMarksByExternalReference(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{"o1": pendingOrder("o1", "u1")}}
	mp := &fakeClient{payment: models.Payment{ID: 555, Status: "approved", ExternalReference: "o1"}}
	s, notified := newTestService(mp, store)

	note := models.WebhookNotification{Type: "payment", LiveMode: true, Data: models.WebhookData{ID: "555"}}
	w := postWebhook(s, webhookBody(t, note))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mp.getCalls != 1 {
		t.Errorf("expected one provider lookup, got %d", mp.getCalls)
	}
	if store.orders["o1"].Status != models.StatusPaid {
		t.Error("expected the order to be paid")
	}
	if len(*notified) != 1 {
		t.Errorf("expected one notification, got %v", *notified)
	}
}

func TestWebhookLiveNonApprovedIsNoop(t *testing.T) {
	for _, status := range []string{"pending", "rejected", "in_process"} {
		store := &fakeStore{orders: map[string]models.Order{"o1": pendingOrder("o1", "u1")}}
		mp := &fakeClient{payment: models.Payment{ID: 555, Status: status, ExternalReference: "o1"}}
		s, _ := newTestService(mp, store)

		note := models.WebhookNotification{Type: "payment", LiveMode: true, Data: models.WebhookData{ID: "555"}}
		w := postWebhook(s, webhookBody(t, note))

		if w.Code != http.StatusOK {
			t.Errorf("status %s: expected 200, got %d", status, w.Code)
		}
		if len(store.paidCalls) != 0 {
			t.Errorf("status %s: expected no paid write", status)
		}
	}
}

func TestWebhookLiveUnknownPaymentAcks(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{}}
	mp := &fakeClient{paymentErr: ErrPaymentNotFound}
	s, _ := newTestService(mp, store)

	note := models.WebhookNotification{Type: "payment", LiveMode: true, Data: models.WebhookData{ID: "555"}}
	w := postWebhook(s, webhookBody(t, note))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for an unknown payment, got %d", w.Code)
	}
}

func TestWebhookLiveProviderErrorAsksForRedelivery(t *testing.T) {
	store := &fakeStore{orders: map[string]models.Order{}}
	mp := &fakeClient{paymentErr: context.DeadlineExceeded}
	s, _ := newTestService(mp, store)

	note := models.WebhookNotification{Type: "payment", LiveMode: true, Data: models.WebhookData{ID: "555"}}
	w := postWebhook(s, webhookBody(t, note))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if len(store.paidCalls) != 0 {
		t.Error("expected no paid write on a failed lookup")
	}
}

func TestWebhookLiveStoreFailureAsksForRedelivery(t *testing.T) {
	store := &fakeStore{
		orders:  map[string]models.Order{"o1": pendingOrder("o1", "u1")},
		paidErr: context.DeadlineExceeded,
	}
	mp := &fakeClient{payment: models.Payment{ID: 555, Status: "approved", ExternalReference: "o1"}}
	s, notified := newTestService(mp, store)

	note := models.WebhookNotification{Type: "payment", LiveMode: true, Data: models.WebhookData{ID: "555"}}
	w := postWebhook(s, webhookBody(t, note))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 so the provider redelivers, got %d", w.Code)
	}
	if len(*notified) != 0 {
		t.Error("expected no notification on a failed write")
	}
}

func TestWebhookSandboxStoreFailureAsksForRedelivery(t *testing.T) {
	store := &fakeStore{
		orders:  map[string]models.Order{"o1": pendingOrder("o1", "u1")},
		paidErr: context.DeadlineExceeded,
	}
	s, _ := newTestService(&fakeClient{}, store)

	note := models.WebhookNotification{Type: "payment", LiveMode: false, Data: models.WebhookData{ID: "o1"}}
	w := postWebhook(s, webhookBody(t, note))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestWebhookBadJSON(t *testing.T) {
	s, _ := newTestService(&fakeClient{}, &fakeStore{orders: map[string]models.Order{}})

	w := postWebhook(s, []byte("{not json"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
