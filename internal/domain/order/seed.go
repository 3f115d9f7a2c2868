package order

import "time"

func daysAgo(now time.Time, d int) time.Time {
	return now.AddDate(0, 0, -d)
}

func stamp(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Seed builds the reference order book with dates anchored to now, so
// age-based eligibility rules exercise every branch.
func Seed(now time.Time) *Book {
	transit := daysAgo(now, 2)
	deliveredRecent := daysAgo(now, 5)
	deliveredOld := daysAgo(now, 45)
	deliveredMid := daysAgo(now, 20)

	return NewBook(
		Record{
			OrderID:        "ORD-12345",
			Status:         StatusInTransit,
			Price:          2499,
			OrderDate:      daysAgo(now, 4),
			CustomerName:   "Rajesh Kumar",
			ProductName:    "Industrial Drill Machine",
			TrackingNumber: "TRK-98765-IN",
			Carrier:        "BlueDart Express",
			Milestones: []Milestone{
				{Date: stamp(daysAgo(now, 4)), Time: "10:30 AM", Status: "Order Placed", Location: "Bangalore"},
				{Date: stamp(daysAgo(now, 4)), Time: "3:45 PM", Status: "Picked Up", Location: "Bangalore Warehouse"},
				{Date: stamp(daysAgo(now, 3)), Time: "8:20 AM", Status: "In Transit", Location: "Bangalore Hub"},
				{Date: stamp(transit), Time: "2:15 PM", Status: "Arrived at Hub", Location: "Mumbai Distribution Center"},
			},
		},
		Record{
			OrderID:        "ORD-67890",
			Status:         StatusDelivered,
			Price:          1299,
			OrderDate:      daysAgo(now, 7),
			DeliveryDate:   &deliveredRecent,
			CustomerName:   "Priya Sharma",
			ProductName:    "Safety Helmet Set",
			TrackingNumber: "TRK-45678-IN",
			Carrier:        "DTDC Courier",
			Milestones: []Milestone{
				{Date: stamp(daysAgo(now, 7)), Time: "9:00 AM", Status: "Order Placed", Location: "Delhi"},
				{Date: stamp(daysAgo(now, 6)), Time: "11:45 AM", Status: "In Transit", Location: "Delhi Hub"},
				{Date: stamp(deliveredRecent), Time: "4:15 PM", Status: "Delivered", Location: "Customer Address"},
			},
		},
		Record{
			OrderID:        "ORD-11111",
			Status:         StatusProcessing,
			Price:          3999,
			OrderDate:      daysAgo(now, 1),
			CustomerName:   "Amit Patel",
			ProductName:    "Welding Equipment Kit",
			TrackingNumber: "TRK-11111-IN",
			Carrier:        "Delhivery",
			Milestones: []Milestone{
				{Date: stamp(daysAgo(now, 1)), Time: "11:20 AM", Status: "Order Placed", Location: "Chennai"},
				{Date: stamp(daysAgo(now, 1)), Time: "3:00 PM", Status: "Payment Confirmed", Location: "Chennai"},
				{Date: stamp(now), Time: "9:30 AM", Status: "Processing", Location: "Chennai Warehouse"},
			},
		},
		Record{
			OrderID:        "ORD-22222",
			Status:         StatusPending,
			Price:          899,
			OrderDate:      now,
			CustomerName:   "Sunita Reddy",
			ProductName:    "Hand Tools Combo",
			TrackingNumber: "TRK-22222-IN",
			Carrier:        "India Post",
			Milestones: []Milestone{
				{Date: stamp(now), Time: "10:05 AM", Status: "Order Placed", Location: "Hyderabad"},
			},
		},
		Record{
			OrderID:        "ORD-33333",
			Status:         StatusConfirmed,
			Price:          5499,
			OrderDate:      daysAgo(now, 3),
			CustomerName:   "Vikram Singh",
			ProductName:    "Air Compressor",
			TrackingNumber: "TRK-33333-IN",
			Carrier:        "BlueDart Express",
			Milestones: []Milestone{
				{Date: stamp(daysAgo(now, 3)), Time: "2:40 PM", Status: "Order Placed", Location: "Pune"},
				{Date: stamp(daysAgo(now, 2)), Time: "10:10 AM", Status: "Confirmed", Location: "Pune"},
			},
		},
		Record{
			OrderID:        "ORD-44444",
			Status:         StatusDelivered,
			Price:          2999,
			OrderDate:      daysAgo(now, 24),
			DeliveryDate:   &deliveredMid,
			CustomerName:   "Meena Iyer",
			ProductName:    "Paint Sprayer",
			TrackingNumber: "TRK-44444-IN",
			Carrier:        "Delhivery",
			Milestones: []Milestone{
				{Date: stamp(daysAgo(now, 24)), Time: "9:45 AM", Status: "Order Placed", Location: "Kochi"},
				{Date: stamp(deliveredMid), Time: "1:25 PM", Status: "Delivered", Location: "Customer Address"},
			},
		},
		Record{
			OrderID:        "ORD-55555",
			Status:         StatusDelivered,
			Price:          899,
			OrderDate:      daysAgo(now, 50),
			DeliveryDate:   &deliveredOld,
			CustomerName:   "Arjun Nair",
			ProductName:    "Measuring Tape Set",
			TrackingNumber: "TRK-55555-IN",
			Carrier:        "DTDC Courier",
			Milestones: []Milestone{
				{Date: stamp(daysAgo(now, 50)), Time: "12:00 PM", Status: "Order Placed", Location: "Mysore"},
				{Date: stamp(deliveredOld), Time: "5:30 PM", Status: "Delivered", Location: "Customer Address"},
			},
		},
		Record{
			OrderID:        "ORD-77777",
			Status:         StatusShipped,
			Price:          1599,
			OrderDate:      daysAgo(now, 2),
			CustomerName:   "Kavita Joshi",
			ProductName:    "Power Generator",
			TrackingNumber: "TRK-77777-IN",
			Carrier:        "BlueDart Express",
			Milestones: []Milestone{
				{Date: stamp(daysAgo(now, 2)), Time: "8:15 AM", Status: "Order Placed", Location: "Nagpur"},
				{Date: stamp(daysAgo(now, 1)), Time: "6:40 PM", Status: "Shipped", Location: "Nagpur Warehouse"},
			},
		},
	)
}
