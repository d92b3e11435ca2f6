package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Drbrilliant360/courier-insight-ai/internal/httpx"
	"github.com/Drbrilliant360/courier-insight-ai/internal/store"
)

type courierResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	VehicleType      string    `json:"vehicle_type"`
	Rating           float64   `json:"rating"`
	TotalDeliveries  int32     `json:"total_deliveries"`
	OnTimeDeliveries int32     `json:"on_time_deliveries"`
	Email            *string   `json:"email,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	CreatedAt        string    `json:"created_at"`
}

// GetCouriers serves the courier leaderboard, best rated first.
func (s *Server) GetCouriers(w http.ResponseWriter, r *http.Request) {
	couriers, err := s.Store.ListCouriersByRating(r.Context(), limitParam(r, 50, 200))
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load couriers")
		return
	}

	items := make([]courierResponse, 0, len(couriers))
	for _, c := range couriers {
		items = append(items, courierResponse{
			ID:               c.ID,
			Name:             c.Name,
			Status:           c.Status,
			VehicleType:      c.VehicleType,
			Rating:           c.Rating,
			TotalDeliveries:  c.TotalDeliveries,
			OnTimeDeliveries: c.OnTimeDeliveries,
			Email:            c.Email,
			Phone:            c.Phone,
			CreatedAt:        c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"couriers": items})
}

type orderResponse struct {
	ID                  uuid.UUID  `json:"id"`
	OrderNumber         string     `json:"order_number"`
	CustomerName        string     `json:"customer_name"`
	CustomerPhone       *string    `json:"customer_phone,omitempty"`
	PickupAddress       string     `json:"pickup_address"`
	DeliveryAddress     string     `json:"delivery_address"`
	Status              string     `json:"status"`
	CourierID           *uuid.UUID `json:"courier_id,omitempty"`
	PriorityLevel       int32      `json:"priority_level"`
	SpecialInstructions *string    `json:"special_instructions,omitempty"`
	CreatedAt           string     `json:"created_at"`
	UpdatedAt           string     `json:"updated_at"`
}

// GetOrders serves recent orders, newest first.
func (s *Server) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.Store.ListRecentOrders(r.Context(), limitParam(r, 50, 200))
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}

	items := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, orderResponse{
			ID:                  o.ID,
			OrderNumber:         o.OrderNumber,
			CustomerName:        o.CustomerName,
			CustomerPhone:       o.CustomerPhone,
			PickupAddress:       o.PickupAddress,
			DeliveryAddress:     o.DeliveryAddress,
			Status:              o.Status,
			CourierID:           o.CourierID,
			PriorityLevel:       o.PriorityLevel,
			SpecialInstructions: o.SpecialInstructions,
			CreatedAt:           o.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:           o.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"orders": items})
}

type statsResponse struct {
	TotalOrders     int64   `json:"total_orders"`
	DeliveredOrders int64   `json:"delivered_orders"`
	ActiveCouriers  int64   `json:"active_couriers"`
	TotalCouriers   int64   `json:"total_couriers"`
	CompletionRate  float64 `json:"completion_rate"`
}

// GetStats serves the dashboard metric-card numbers.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Store.GetDashboardStats(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, statsResponse{
		TotalOrders:     stats.TotalOrders,
		DeliveredOrders: stats.DeliveredOrders,
		ActiveCouriers:  stats.ActiveCouriers,
		TotalCouriers:   stats.TotalCouriers,
		CompletionRate:  completionRate(stats),
	})
}

func completionRate(stats store.DashboardStats) float64 {
	if stats.TotalOrders == 0 {
		return 0
	}
	return float64(stats.DeliveredOrders) / float64(stats.TotalOrders)
}

func limitParam(r *http.Request, fallback, max int32) int32 {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	if int32(parsed) > max {
		return max
	}
	return int32(parsed)
}
