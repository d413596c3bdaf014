package pay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vestire/models"
)

func TestMercadoPagoCreatePreference(t *testing.T) {
	var gotAuth string
	var gotBody models.Preference

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/checkout/preferences" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.CreatedPreference{ID: "pref1", InitPoint: "https://mp.test/init"})
	}))
	defer srv.Close()

	client := &MercadoPago{BaseURL: srv.URL, AccessToken: "tok123"}
	created, err := client.CreatePreference(context.Background(), models.Preference{
		ExternalReference: "o1",
		Items:             []models.PreferenceItem{{Title: "Remera", Quantity: 1, UnitPrice: 1500, CurrencyID: "ARS"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.InitPoint != "https://mp.test/init" {
		t.Errorf("unexpected init point %q", created.InitPoint)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotBody.ExternalReference != "o1" {
		t.Errorf("unexpected external reference %q", gotBody.ExternalReference)
	}
}

func TestMercadoPagoCreatePreferenceRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid items"}`))
	}))
	defer srv.Close()

	client := &MercadoPago{BaseURL: srv.URL, AccessToken: "tok123"}
	_, err := client.CreatePreference(context.Background(), models.Preference{})
	if err == nil {
		t.Fatal("expected an error for a rejected preference")
	}
}

func TestMercadoPagoGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/555" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.Payment{ID: 555, Status: "approved", ExternalReference: "o1"})
	}))
	defer srv.Close()

	client := &MercadoPago{BaseURL: srv.URL, AccessToken: "tok123"}
	payment, err := client.GetPayment(context.Background(), "555")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != "approved" || payment.ExternalReference != "o1" {
		t.Errorf("unexpected payment %+v", payment)
	}
}

func TestMercadoPagoGetPaymentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"not found"}`))
	}))
	defer srv.Close()

	client := &MercadoPago{BaseURL: srv.URL, AccessToken: "tok123"}
	_, err := client.GetPayment(context.Background(), "999")
	if err != ErrPaymentNotFound {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}
