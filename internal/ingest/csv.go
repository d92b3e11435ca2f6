package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSV reads an uploaded CSV dataset. The first line is the header row;
// subsequent lines map positionally to it. Rows with fewer cells than the
// header produce best-effort partial records — per-record validation in the
// pipeline is the real gate, not CSV shape.
func ParseCSV(r io.Reader) ([]UploadedRecord, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows := make([][]string, 0, 1024)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("uploaded CSV is empty")
	}

	headers := normalizeHeaderRow(rows[0])
	mapping := make(map[string]int, len(headers))
	for idx, header := range headers {
		mapping[normalizeHeaderKey(header)] = idx
	}

	records := make([]UploadedRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, buildRecord(row, mapping))
	}
	return records, headers, nil
}

func normalizeHeaderRow(row []string) []string {
	headers := make([]string, len(row))
	for i, col := range row {
		headers[i] = strings.TrimPrefix(strings.TrimSpace(col), "\ufeff")
	}
	return headers
}

func normalizeHeaderKey(raw string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "", ".", "", "/", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(raw)))
}

func buildRecord(row []string, mapping map[string]int) UploadedRecord {
	get := func(key string) string {
		idx, ok := mapping[normalizeHeaderKey(key)]
		if !ok || idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	return UploadedRecord{
		OrderID:             get("order_id"),
		CourierName:         get("courier_name"),
		PickupLocation:      get("pickup_location"),
		DeliveryLocation:    get("delivery_location"),
		PickupTime:          get("pickup_time"),
		DeliveryTime:        get("delivery_time"),
		Status:              get("status"),
		CustomerName:        get("customer_name"),
		CustomerPhone:       get("customer_phone"),
		SpecialInstructions: get("special_instructions"),
	}
}
