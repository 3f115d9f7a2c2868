// Package modules implements the deterministic business-rule executors
// behind each support intent: tracking, cancellation, refunds, service
// enquiries and FAQ lookup. Every executor is a pure function of its
// inputs, the order book and the clock.
package modules

import (
	"regexp"
	"strings"
	"time"

	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/order"
)

var orderIDPattern = regexp.MustCompile(`(?i)ORD-\d+`)

// ExtractOrderID pulls the first order reference out of free text,
// normalized to upper case.
func ExtractOrderID(input string) (string, bool) {
	m := orderIDPattern.FindString(input)
	if m == "" {
		return "", false
	}
	return strings.ToUpper(m), true
}

// refSuffix derives a short reference suffix from the clock, used for
// cancellation, refund and ticket numbers.
func refSuffix(now time.Time, n int) string {
	s := now.UnixMilli()
	digits := []byte{}
	for s > 0 {
		digits = append([]byte{byte('0' + s%10)}, digits...)
		s /= 10
	}
	if len(digits) > n {
		digits = digits[len(digits)-n:]
	}
	return string(digits)
}

var statusLabels = map[order.Status]string{
	order.StatusPending:        "Payment Pending",
	order.StatusProcessing:     "Processing",
	order.StatusConfirmed:      "Confirmed",
	order.StatusShipped:        "Shipped",
	order.StatusInTransit:      "In Transit",
	order.StatusOutForDelivery: "Out for Delivery",
	order.StatusDelivered:      "Delivered",
	order.StatusCancelled:      "Cancelled",
}

// statusLabel renders a lifecycle state for customer-facing messages.
func statusLabel(s order.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
