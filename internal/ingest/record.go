// Package ingest implements the delivery-data ingestion pipeline: record
// normalization, courier resolution, idempotent order upserts, and batched
// job processing.
package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Drbrilliant360/courier-insight-ai/internal/geo"
)

// UploadedRecord is one raw row from an uploaded dataset. It is never
// persisted as-is; the normalizer turns it into order field values.
type UploadedRecord struct {
	OrderID             string `json:"order_id"`
	CourierName         string `json:"courier_name"`
	PickupLocation      string `json:"pickup_location"`
	DeliveryLocation    string `json:"delivery_location"`
	PickupTime          string `json:"pickup_time"`
	DeliveryTime        string `json:"delivery_time"`
	Status              string `json:"status"`
	CustomerName        string `json:"customer_name,omitempty"`
	CustomerPhone       string `json:"customer_phone,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

// CanonicalColumns is the column set recorded in job metadata when the
// upload arrives as JSON and no CSV header is available.
var CanonicalColumns = []string{
	"order_id", "courier_name", "pickup_location", "delivery_location",
	"pickup_time", "delivery_time", "status",
	"customer_name", "customer_phone", "special_instructions",
}

const defaultCustomerName = "Unknown Customer"

var deliveryStatuses = map[string]struct{}{
	"pending":    {},
	"assigned":   {},
	"picked_up":  {},
	"in_transit": {},
	"delivered":  {},
	"completed":  {},
	"failed":     {},
	"cancelled":  {},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeStatus lowercases the raw status and collapses whitespace runs to
// single underscores ("In Transit" -> "in_transit"). The result must be a
// member of the delivery status enumeration.
func NormalizeStatus(raw string) (string, error) {
	status := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "_")
	if _, ok := deliveryStatuses[status]; !ok {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return status, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
	"2006-01-02",
}

func parseTimestamp(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", raw)
}

// NormalizedOrder holds the persisted order field values derived from one
// uploaded record, before a courier has been resolved.
type NormalizedOrder struct {
	OrderNumber         string
	CustomerName        string
	CustomerPhone       *string
	PickupAddress       string
	Pickup              geo.Point
	DeliveryAddress     string
	Delivery            geo.Point
	Status              string
	PickupTime          *time.Time
	DeliveryTime        *time.Time
	SpecialInstructions *string
}

// NormalizeRecord validates and converts one uploaded record. Location parse
// failures carry geo.ErrInvalidLocation so the caller can report them under
// the location-specific message.
func NormalizeRecord(rec UploadedRecord) (NormalizedOrder, error) {
	if strings.TrimSpace(rec.OrderID) == "" {
		return NormalizedOrder{}, fmt.Errorf("missing order_id")
	}
	if strings.TrimSpace(rec.CourierName) == "" {
		return NormalizedOrder{}, fmt.Errorf("missing courier_name")
	}

	pickup, err := geo.ParseLocation(rec.PickupLocation)
	if err != nil {
		return NormalizedOrder{}, fmt.Errorf("pickup_location: %w", err)
	}
	delivery, err := geo.ParseLocation(rec.DeliveryLocation)
	if err != nil {
		return NormalizedOrder{}, fmt.Errorf("delivery_location: %w", err)
	}

	status, err := NormalizeStatus(rec.Status)
	if err != nil {
		return NormalizedOrder{}, err
	}

	pickupTime, err := parseTimestamp(rec.PickupTime)
	if err != nil {
		return NormalizedOrder{}, fmt.Errorf("pickup_time: %w", err)
	}
	deliveryTime, err := parseTimestamp(rec.DeliveryTime)
	if err != nil {
		return NormalizedOrder{}, fmt.Errorf("delivery_time: %w", err)
	}

	customerName := strings.TrimSpace(rec.CustomerName)
	if customerName == "" {
		customerName = defaultCustomerName
	}

	return NormalizedOrder{
		OrderNumber:         strings.TrimSpace(rec.OrderID),
		CustomerName:        customerName,
		CustomerPhone:       stringPtrOrNil(rec.CustomerPhone),
		PickupAddress:       rec.PickupLocation,
		Pickup:              pickup,
		DeliveryAddress:     rec.DeliveryLocation,
		Delivery:            delivery,
		Status:              status,
		PickupTime:          pickupTime,
		DeliveryTime:        deliveryTime,
		SpecialInstructions: stringPtrOrNil(rec.SpecialInstructions),
	}, nil
}

func stringPtrOrNil(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
