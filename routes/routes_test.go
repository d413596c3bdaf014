package routes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"vestire/pay"
	"vestire/ratelim"
	"vestire/shipping"

	"github.com/julienschmidt/httprouter"
)

func newTestRouter() *httprouter.Router {
	router := httprouter.New()
	RoutesWrapper(router, ratelim.NewRateLimiter(), pay.NewService(nil, nil), &shipping.Resolver{})
	return router
}

func TestShippingRetailersIsUnauthenticated(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/shipping/retailers", bytes.NewReader(nil))
	router.ServeHTTP(w, r)

	// No token: the handler itself answers, rejecting the empty body.
	if w.Code == http.StatusUnauthorized {
		t.Fatal("expected the shipping lookup to run without a token")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an empty body, got %d", w.Code)
	}
}

func TestWebhookIsNotRateLimited(t *testing.T) {
	router := newTestRouter()

	// Well past the per-IP burst: a provider retry storm must never see 429.
	for i := 0; i < 30; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/orders/webhook", bytes.NewReader([]byte(`{"type":"merchant_order"}`)))
		router.ServeHTTP(w, r)

		if w.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d was rate limited", i)
		}
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestOrdersStillRequireAuth(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/orders", nil)
	router.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
}
