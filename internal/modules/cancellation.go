package modules

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/order"
)

// cancellationWindow is how long after ordering a cancellation is still
// accepted for orders that have not entered fulfilment.
const cancellationWindow = 7 * 24 * time.Hour

// CancellationResult is the cancellation module's response payload.
type CancellationResult struct {
	OrderID        string  `json:"orderId"`
	CanCancel      bool    `json:"canCancel"`
	Reason         string  `json:"reason"`
	RefundAmount   float64 `json:"refundAmount,omitempty"`
	RefundMethod   string  `json:"refundMethod,omitempty"`
	ProcessingTime string  `json:"processingTime,omitempty"`
	CancellationID string  `json:"cancellationId,omitempty"`
	Message        string  `json:"message"`
}

// Cancellation decides cancellation requests against order state and age.
type Cancellation struct {
	book   *order.Book
	logger *zap.Logger
	now    func() time.Time
}

// NewCancellation creates the cancellation executor.
func NewCancellation(book *order.Book, logger *zap.Logger) *Cancellation {
	return &Cancellation{book: book, logger: logger, now: time.Now}
}

// Execute applies the cancellation policy: orders already in fulfilment
// or past the cancellation window are denied, orders still pending or
// processing are cancelled with a full refund.
func (c *Cancellation) Execute(orderRef, reason string) CancellationResult {
	id, ok := ExtractOrderID(orderRef)
	if !ok {
		return CancellationResult{
			CanCancel: false,
			Reason:    "No order ID provided",
			Message:   "Please share your order ID (for example ORD-12345) so we can process the cancellation.",
		}
	}

	rec, ok := c.book.Lookup(id)
	if !ok {
		return CancellationResult{
			OrderID:   id,
			CanCancel: false,
			Reason:    "Order not found",
			Message:   fmt.Sprintf("We could not find an order with ID %s. Please check the ID and try again.", id),
		}
	}

	if denial, denied := shipmentDenialReason(rec.Status); denied {
		return CancellationResult{
			OrderID:   id,
			CanCancel: false,
			Reason:    denial,
			Message: fmt.Sprintf("Sorry, order %s cannot be cancelled as it is already %s.",
				id, strings.ToLower(statusLabel(rec.Status))),
		}
	}

	if c.now().Sub(rec.OrderDate) > cancellationWindow {
		return CancellationResult{
			OrderID:   id,
			CanCancel: false,
			Reason:    "Cancellation window of 7 days has expired",
			Message: fmt.Sprintf("Sorry, order %s can no longer be cancelled; the 7-day cancellation window has expired.", id),
		}
	}

	if rec.Status != order.StatusPending && rec.Status != order.StatusProcessing {
		return CancellationResult{
			OrderID:   id,
			CanCancel: false,
			Reason:    "Order cannot be cancelled at this stage",
			Message: fmt.Sprintf("Sorry, order %s cannot be cancelled as it is already %s.",
				id, strings.ToLower(statusLabel(rec.Status))),
		}
	}

	if reason == "" {
		reason = "Customer request"
	}
	cancellationID := "CAN-" + refSuffix(c.now(), 6)
	c.logger.Info("order cancelled",
		zap.String("order_id", id),
		zap.String("cancellation_id", cancellationID),
		zap.Float64("refund", rec.Price),
	)

	return CancellationResult{
		OrderID:        id,
		CanCancel:      true,
		Reason:         reason,
		RefundAmount:   rec.Price,
		RefundMethod:   "Original Payment Method",
		ProcessingTime: "3-5 business days",
		CancellationID: cancellationID,
		Message: fmt.Sprintf("Order %s has been successfully cancelled. Refund of ₹%.0f will be processed within 3-5 business days.",
			id, rec.Price),
	}
}

// shipmentDenialReason reports why a status makes cancellation impossible.
func shipmentDenialReason(s order.Status) (string, bool) {
	switch s {
	case order.StatusShipped:
		return "Order has already been shipped", true
	case order.StatusInTransit:
		return "Order is already shipped and in transit", true
	case order.StatusOutForDelivery:
		return "Order is out for delivery", true
	case order.StatusDelivered:
		return "Order has already been delivered", true
	case order.StatusCancelled:
		return "Order is already cancelled", true
	}
	return "", false
}
