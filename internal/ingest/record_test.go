package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/Drbrilliant360/courier-insight-ai/internal/geo"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"delivered", "delivered"},
		{"Delivered", "delivered"},
		{"In Transit", "in_transit"},
		{"  PICKED  UP  ", "picked_up"},
		{"in_transit", "in_transit"},
		{"COMPLETED", "completed"},
	}
	for _, tc := range cases {
		got, err := NormalizeStatus(tc.raw)
		if err != nil {
			t.Errorf("NormalizeStatus(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{"", "teleported", "in-transit", "done"} {
		if _, err := NormalizeStatus(raw); err == nil {
			t.Errorf("NormalizeStatus(%q) accepted, want error", raw)
		}
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	cases := []string{
		"2026-08-01T09:00:00Z",
		"2026-08-01T09:00:00",
		"2026-08-01 09:00:00",
		"2026-08-01 09:00",
		"08/01/2026 09:00",
		"2026-08-01",
	}
	for _, raw := range cases {
		got, err := parseTimestamp(raw)
		if err != nil {
			t.Errorf("parseTimestamp(%q): %v", raw, err)
			continue
		}
		if got == nil {
			t.Errorf("parseTimestamp(%q) = nil", raw)
		}
	}

	if got, err := parseTimestamp("  "); err != nil || got != nil {
		t.Errorf("blank timestamp: got %v, %v; want nil, nil", got, err)
	}
	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("parseTimestamp accepted garbage")
	}
}

func TestNormalizeRecord(t *testing.T) {
	rec := UploadedRecord{
		OrderID:          " ORD-100 ",
		CourierName:      "Amina Hassan",
		PickupLocation:   "-6.7924,39.2083",
		DeliveryLocation: "POINT(39.2612 -6.8235)",
		PickupTime:       "2026-08-01T09:00:00Z",
		DeliveryTime:     "",
		Status:           "In Transit",
	}

	norm, err := NormalizeRecord(rec)
	if err != nil {
		t.Fatalf("NormalizeRecord: %v", err)
	}

	if norm.OrderNumber != "ORD-100" {
		t.Errorf("OrderNumber = %q", norm.OrderNumber)
	}
	if norm.CustomerName != "Unknown Customer" {
		t.Errorf("CustomerName = %q, want default", norm.CustomerName)
	}
	if norm.CustomerPhone != nil || norm.SpecialInstructions != nil {
		t.Error("blank optional fields should normalize to nil")
	}
	if norm.Status != "in_transit" {
		t.Errorf("Status = %q", norm.Status)
	}
	if norm.Pickup.Lat != -6.7924 || norm.Pickup.Lng != 39.2083 {
		t.Errorf("Pickup = %+v", norm.Pickup)
	}
	if norm.Delivery.Lng != 39.2612 || norm.Delivery.Lat != -6.8235 {
		t.Errorf("Delivery = %+v", norm.Delivery)
	}
	want := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	if norm.PickupTime == nil || !norm.PickupTime.Equal(want) {
		t.Errorf("PickupTime = %v", norm.PickupTime)
	}
	if norm.DeliveryTime != nil {
		t.Errorf("DeliveryTime = %v, want nil", norm.DeliveryTime)
	}
}

func TestNormalizeRecordOptionalFields(t *testing.T) {
	rec := validRecord("ORD-1", "Amina Hassan", "pending")
	rec.CustomerName = "  Jane Doe  "
	rec.CustomerPhone = "+255 700 000 001"
	rec.SpecialInstructions = "leave at gate"

	norm, err := NormalizeRecord(rec)
	if err != nil {
		t.Fatalf("NormalizeRecord: %v", err)
	}
	if norm.CustomerName != "Jane Doe" {
		t.Errorf("CustomerName = %q", norm.CustomerName)
	}
	if norm.CustomerPhone == nil || *norm.CustomerPhone != "+255 700 000 001" {
		t.Errorf("CustomerPhone = %v", norm.CustomerPhone)
	}
	if norm.SpecialInstructions == nil || *norm.SpecialInstructions != "leave at gate" {
		t.Errorf("SpecialInstructions = %v", norm.SpecialInstructions)
	}
}

func TestNormalizeRecordErrors(t *testing.T) {
	base := validRecord("ORD-1", "Amina Hassan", "pending")

	missingOrder := base
	missingOrder.OrderID = "  "
	if _, err := NormalizeRecord(missingOrder); err == nil {
		t.Error("missing order_id accepted")
	}

	missingCourier := base
	missingCourier.CourierName = ""
	if _, err := NormalizeRecord(missingCourier); err == nil {
		t.Error("missing courier_name accepted")
	}

	badPickup := base
	badPickup.PickupLocation = "somewhere"
	if _, err := NormalizeRecord(badPickup); !errors.Is(err, geo.ErrInvalidLocation) {
		t.Errorf("bad pickup location: err = %v, want geo.ErrInvalidLocation", err)
	}

	badDelivery := base
	badDelivery.DeliveryLocation = "POINT()"
	if _, err := NormalizeRecord(badDelivery); !errors.Is(err, geo.ErrInvalidLocation) {
		t.Errorf("bad delivery location: err = %v, want geo.ErrInvalidLocation", err)
	}

	badStatus := base
	badStatus.Status = "floating"
	if _, err := NormalizeRecord(badStatus); err == nil {
		t.Error("unknown status accepted")
	}

	badTime := base
	badTime.DeliveryTime = "soon"
	if _, err := NormalizeRecord(badTime); err == nil {
		t.Error("garbage timestamp accepted")
	}
}
