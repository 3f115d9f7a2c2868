// Package order holds the read-only order reference data consumed by
// the business-rule module executors. Nothing in this package is
// mutated by assistant requests.
package order

import "time"

// Status is an order lifecycle state.
type Status string

const (
	StatusPending        Status = "pending"
	StatusProcessing     Status = "processing"
	StatusConfirmed      Status = "confirmed"
	StatusShipped        Status = "shipped"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// Milestone is one tracking event in an order's history.
type Milestone struct {
	Date     string
	Time     string
	Status   string
	Location string
}

// Record is a single order. Read-only reference data.
type Record struct {
	OrderID        string
	Status         Status
	Price          float64
	OrderDate      time.Time
	DeliveryDate   *time.Time // nil until delivered
	CustomerName   string
	ProductName    string
	TrackingNumber string
	Carrier        string
	Milestones     []Milestone
}

// Book is an in-memory order directory.
type Book struct {
	records map[string]Record
}

// NewBook creates a directory over the given records.
func NewBook(records ...Record) *Book {
	m := make(map[string]Record, len(records))
	for _, r := range records {
		m[r.OrderID] = r
	}
	return &Book{records: m}
}

// Lookup finds an order by its exact (normalized) ID.
func (b *Book) Lookup(id string) (Record, bool) {
	r, ok := b.records[id]
	return r, ok
}
