package orders

import (
	"encoding/json"
	"testing"

	"vestire/models"
)

func TestCreateOrderInputWireFormat(t *testing.T) {
	body := []byte(`{
		"items": [{"product": "p1", "quantity": 2, "size": "M"}],
		"totalAmount": 4800.50,
		"shippingMethod": "home_delivery",
		"shippingAddress": "Av. Siempre Viva 742, Springfield"
	}`)

	var input createOrderInput
	if err := json.Unmarshal(body, &input); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(input.Items) != 1 || input.Items[0].ProductID != "p1" || input.Items[0].Quantity != 2 || input.Items[0].Size != "M" {
		t.Errorf("unexpected items %+v", input.Items)
	}
	if input.TotalAmount != 4800.50 {
		t.Errorf("expected the submitted total kept as 4800.50, got %v", input.TotalAmount)
	}

	details := input.shippingDetails()
	if details.UserInfo != "Av. Siempre Viva 742, Springfield" {
		t.Errorf("unexpected userInfo %q", details.UserInfo)
	}
	if details.Address != "Av. Siempre Viva 742, Springfield" {
		t.Errorf("expected the address on a home delivery, got %q", details.Address)
	}
	if details.PickupPoint != nil {
		t.Error("expected no pickup point on a home delivery")
	}
}

func TestCreateOrderInputPickupPoint(t *testing.T) {
	body := []byte(`{
		"items": [{"product": "p2", "quantity": 1}],
		"totalAmount": 9000,
		"shippingMethod": "pickup_point",
		"pickupPoint": {"name": "Correo Centro", "address": "San Martin 100", "lat": -34.6, "lng": -58.4}
	}`)

	var input createOrderInput
	if err := json.Unmarshal(body, &input); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	details := input.shippingDetails()
	if details.PickupPoint == nil || details.PickupPoint.Name != "Correo Centro" {
		t.Fatalf("expected the pickup point kept, got %+v", details.PickupPoint)
	}
	if details.Address != "" {
		t.Errorf("expected no address on a pickup order, got %q", details.Address)
	}
}

func TestCreateOrderInputPickupInStore(t *testing.T) {
	input := createOrderInput{ShippingMethod: models.ShippingPickupInStore}

	details := input.shippingDetails()
	if details.Address != "" || details.PickupPoint != nil {
		t.Errorf("expected an empty payload for in-store pickup, got %+v", details)
	}
}
