package modules

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/order"
)

// returnWindowDays is the refund eligibility window after delivery.
const returnWindowDays = 30

const returnAddress = "Karnataka Enterprises, Warehouse 4B, Industrial Area, Bangalore - 560001"

// RefundResult is the refund module's response payload.
type RefundResult struct {
	OrderID        string  `json:"orderId"`
	Eligible       bool    `json:"eligible"`
	RefundAmount   float64 `json:"refundAmount,omitempty"`
	RefundMethod   string  `json:"refundMethod,omitempty"`
	ProcessingTime string  `json:"processingTime,omitempty"`
	RefundID       string  `json:"refundId,omitempty"`
	Reason         string  `json:"reason"`
	Message        string  `json:"message"`
	ReturnRequired bool    `json:"returnRequired,omitempty"`
	ReturnAddress  string  `json:"returnAddress,omitempty"`
}

// Refund decides refund requests under the 30-day return policy.
type Refund struct {
	book   *order.Book
	logger *zap.Logger
	now    func() time.Time
}

// NewRefund creates the refund executor.
func NewRefund(book *order.Book, logger *zap.Logger) *Refund {
	return &Refund{book: book, logger: logger, now: time.Now}
}

// Execute applies the return policy: only delivered orders within the
// 30-day window are refunded, and the item must be returned.
func (r *Refund) Execute(orderRef, reason string) RefundResult {
	id, ok := ExtractOrderID(orderRef)
	if !ok {
		return RefundResult{
			Eligible: false,
			Reason:   "No order ID provided",
			Message:  "Please share your order ID (for example ORD-12345) so we can check refund eligibility.",
		}
	}

	rec, ok := r.book.Lookup(id)
	if !ok {
		return RefundResult{
			OrderID:  id,
			Eligible: false,
			Reason:   "Order not found",
			Message:  fmt.Sprintf("We could not find an order with ID %s. Please check the ID and try again.", id),
		}
	}

	if rec.Status != order.StatusDelivered || rec.DeliveryDate == nil {
		return r.deny(id, "Order has not been delivered yet.")
	}

	daysSinceDelivery := int(r.now().Sub(*rec.DeliveryDate).Hours() / 24)
	if daysSinceDelivery > returnWindowDays {
		return r.deny(id, "Return window of 30 days has expired.")
	}

	if reason == "" {
		reason = "Customer request"
	}
	refundID := "REF-" + refSuffix(r.now(), 6)
	r.logger.Info("refund initiated",
		zap.String("order_id", id),
		zap.String("refund_id", refundID),
		zap.Float64("amount", rec.Price),
	)

	return RefundResult{
		OrderID:        id,
		Eligible:       true,
		RefundAmount:   rec.Price,
		RefundMethod:   "Original Payment Method",
		ProcessingTime: "5-7 business days",
		RefundID:       refundID,
		Reason:         reason,
		Message: fmt.Sprintf("Refund request %s has been initiated for order %s. Amount of ₹%.0f will be refunded within 5-7 business days.",
			refundID, id, rec.Price),
		ReturnRequired: true,
		ReturnAddress:  returnAddress,
	}
}

func (r *Refund) deny(id, reason string) RefundResult {
	return RefundResult{
		OrderID:  id,
		Eligible: false,
		Reason:   reason,
		Message:  fmt.Sprintf("Sorry, order %s is not eligible for refund. %s", id, reason),
	}
}
