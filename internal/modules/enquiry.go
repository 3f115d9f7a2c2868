package modules

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// EnquiryResult is the service enquiry module's response payload.
type EnquiryResult struct {
	Success      bool   `json:"success"`
	TicketNumber string `json:"ticketNumber"`
	Department   string `json:"department"`
	Priority     string `json:"priority"`
	ResponseTime string `json:"responseTime"`
	Message      string `json:"message"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

type enquiryRoute struct {
	keywords     []string
	department   string
	priority     string
	responseTime string
	contactEmail string
	contactPhone string
}

// Routes are checked in order; the first keyword hit wins.
var enquiryRoutes = []enquiryRoute{
	{
		keywords:     []string{"product", "technical", "defect", "broken", "damaged", "not working", "quality"},
		department:   "Product Support",
		priority:     "high",
		responseTime: "4-6 hours",
		contactEmail: "support@karnatakaenterprises.com",
		contactPhone: "+91-80-1234-5678",
	},
	{
		keywords:     []string{"warranty", "guarantee", "replacement"},
		department:   "Warranty Services",
		priority:     "medium",
		responseTime: "12-24 hours",
		contactEmail: "warranty@karnatakaenterprises.com",
		contactPhone: "+91-80-1234-5679",
	},
	{
		keywords:     []string{"bill", "payment", "invoice", "refund", "charge"},
		department:   "Billing & Accounts",
		priority:     "high",
		responseTime: "6-8 hours",
		contactEmail: "billing@karnatakaenterprises.com",
		contactPhone: "+91-80-1234-5680",
	},
	{
		keywords:     []string{"complaint", "escalate", "manager", "dissatisfied", "unhappy"},
		department:   "Customer Relations",
		priority:     "urgent",
		responseTime: "2-4 hours",
		contactEmail: "escalations@karnatakaenterprises.com",
		contactPhone: "+91-80-1234-5681",
	},
	{
		keywords:     []string{"bulk", "wholesale", "business", "quote", "quotation"},
		department:   "Sales & Business Development",
		priority:     "medium",
		responseTime: "24 hours",
		contactEmail: "sales@karnatakaenterprises.com",
		contactPhone: "+91-80-1234-5682",
	},
}

var defaultRoute = enquiryRoute{
	department:   "Customer Service",
	priority:     "low",
	responseTime: "24-48 hours",
	contactEmail: "customercare@karnatakaenterprises.com",
	contactPhone: "+91-80-1234-5677",
}

// Enquiry registers service enquiries and routes them to a department.
type Enquiry struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEnquiry creates the service enquiry executor.
func NewEnquiry(logger *zap.Logger) *Enquiry {
	return &Enquiry{logger: logger, now: time.Now}
}

// Execute files a ticket and routes it by keyword matching over the
// enquiry type and description.
func (e *Enquiry) Execute(enquiryType, description string) EnquiryResult {
	ticket := "TKT-" + refSuffix(e.now(), 8)
	route := routeEnquiry(enquiryType, description)

	e.logger.Info("service enquiry registered",
		zap.String("ticket", ticket),
		zap.String("department", route.department),
		zap.String("priority", route.priority),
	)

	return EnquiryResult{
		Success:      true,
		TicketNumber: ticket,
		Department:   route.department,
		Priority:     route.priority,
		ResponseTime: route.responseTime,
		Message: fmt.Sprintf("Your service enquiry has been registered successfully. Ticket number: %s. Our %s team will contact you within %s.",
			ticket, route.department, route.responseTime),
		ContactEmail: route.contactEmail,
		ContactPhone: route.contactPhone,
	}
}

func routeEnquiry(enquiryType, description string) enquiryRoute {
	text := strings.ToLower(enquiryType + " " + description)
	for _, route := range enquiryRoutes {
		for _, kw := range route.keywords {
			if strings.Contains(text, kw) {
				return route
			}
		}
	}
	return defaultRoute
}
