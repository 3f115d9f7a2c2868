package modules

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/order"
)

// TrackingMilestone is one event in the shipment history.
type TrackingMilestone struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Location string `json:"location"`
}

// TrackingInfo is the tracking module's response payload.
type TrackingInfo struct {
	OrderID           string              `json:"orderId"`
	Found             bool                `json:"found"`
	Status            string              `json:"status,omitempty"`
	CurrentLocation   string              `json:"currentLocation,omitempty"`
	EstimatedDelivery string              `json:"estimatedDelivery,omitempty"`
	TrackingNumber    string              `json:"trackingNumber,omitempty"`
	Carrier           string              `json:"carrier,omitempty"`
	Milestones        []TrackingMilestone `json:"milestones,omitempty"`
	Message           string              `json:"message"`
}

// Tracking answers order status queries from the order book.
type Tracking struct {
	book   *order.Book
	logger *zap.Logger
	now    func() time.Time
}

// NewTracking creates the tracking executor.
func NewTracking(book *order.Book, logger *zap.Logger) *Tracking {
	return &Tracking{book: book, logger: logger, now: time.Now}
}

// Execute locates the order referenced in the query and reports its
// shipment state. Unknown or missing order IDs produce a structured
// not-found payload rather than an error.
func (t *Tracking) Execute(query string) TrackingInfo {
	id, ok := ExtractOrderID(query)
	if !ok {
		return TrackingInfo{
			Message: "Please share your order ID (for example ORD-12345) so we can look up the shipment.",
		}
	}

	rec, ok := t.book.Lookup(id)
	if !ok {
		t.logger.Info("tracking lookup missed", zap.String("order_id", id))
		return TrackingInfo{
			OrderID: id,
			Message: fmt.Sprintf("We could not find an order with ID %s. Please check the ID and try again.", id),
		}
	}

	milestones := make([]TrackingMilestone, len(rec.Milestones))
	for i, m := range rec.Milestones {
		milestones[i] = TrackingMilestone{
			Date:     m.Date + " " + m.Time,
			Status:   m.Status,
			Location: m.Location,
		}
	}

	info := TrackingInfo{
		OrderID:           id,
		Found:             true,
		Status:            statusLabel(rec.Status),
		EstimatedDelivery: t.estimatedDelivery(rec),
		TrackingNumber:    rec.TrackingNumber,
		Carrier:           rec.Carrier,
		Milestones:        milestones,
		Message:           fmt.Sprintf("Order %s is currently %s.", id, statusLabel(rec.Status)),
	}
	if len(rec.Milestones) > 0 {
		info.CurrentLocation = rec.Milestones[len(rec.Milestones)-1].Location
	}
	if rec.Status == order.StatusDelivered {
		info.CurrentLocation = "Delivered to Customer"
	}
	return info
}

func (t *Tracking) estimatedDelivery(rec order.Record) string {
	if rec.DeliveryDate != nil {
		return rec.DeliveryDate.Format("Jan 2, 2006")
	}
	return t.now().AddDate(0, 0, 3).Format("Jan 2, 2006")
}
