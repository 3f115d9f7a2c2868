package modules

import (
	"strings"

	"go.uber.org/zap"
)

// FAQAnswer is the FAQ module's response payload.
type FAQAnswer struct {
	Question         string   `json:"question"`
	Answer           string   `json:"answer"`
	Category         string   `json:"category"`
	RelatedQuestions []string `json:"relatedQuestions,omitempty"`
}

type faqEntry struct {
	keywords         []string
	question         string
	answer           string
	category         string
	relatedQuestions []string
}

var faqEntries = []faqEntry{
	{
		keywords: []string{"shipping", "delivery", "how long", "when will", "arrive"},
		question: "How long does shipping take?",
		answer:   "Standard shipping takes 3-5 business days within India. Express shipping (1-2 days) is available for major cities. Free shipping on orders above ₹500.",
		category: "Shipping",
		relatedQuestions: []string{
			"Do you ship internationally?",
			"What are the shipping charges?",
			"Can I track my order?",
		},
	},
	{
		keywords: []string{"return", "exchange", "policy", "send back"},
		question: "What is your return policy?",
		answer:   "We offer a 30-day return policy. Items must be unused, in original packaging with tags attached. Return shipping is free for defective items. Refunds are processed within 5-7 business days.",
		category: "Returns",
		relatedQuestions: []string{
			"How do I initiate a return?",
			"What items cannot be returned?",
			"When will I get my refund?",
		},
	},
	{
		keywords: []string{"payment", "pay", "methods", "cod", "card", "upi"},
		question: "What payment methods do you accept?",
		answer:   "We accept Credit/Debit Cards, UPI, Net Banking, Wallets (Paytm, PhonePe), and Cash on Delivery (COD). COD available for orders below ₹10,000.",
		category: "Payment",
		relatedQuestions: []string{
			"Is COD available?",
			"Are payments secure?",
			"Can I pay in installments?",
		},
	},
	{
		keywords: []string{"warranty", "guarantee", "defective", "damaged"},
		question: "Do products come with warranty?",
		answer:   "Yes, all products come with manufacturer warranty. Electronics: 1 year, Appliances: 2 years, Industrial equipment: 3 years. We also offer extended warranty options.",
		category: "Warranty",
		relatedQuestions: []string{
			"How do I claim warranty?",
			"What does warranty cover?",
			"Can I extend warranty?",
		},
	},
	{
		keywords: []string{"contact", "support", "help", "customer service", "phone", "email"},
		question: "How can I contact customer support?",
		answer:   "Email: support@karnatakaenterprises.com | Phone: +91-80-1234-5678 (Mon-Sat, 9 AM - 6 PM) | WhatsApp: +91-98765-43210 | Live Chat: Available on website",
		category: "Support",
		relatedQuestions: []string{
			"What are your business hours?",
			"Do you have a physical store?",
			"How do I track my complaint?",
		},
	},
	{
		keywords: []string{"bulk", "wholesale", "business", "b2b", "corporate"},
		question: "Do you offer bulk/wholesale pricing?",
		answer:   "Yes! We offer special pricing for bulk orders (50+ units) and corporate clients. Contact our B2B team at b2b@karnatakaenterprises.com or call +91-80-1234-5679 for quotes.",
		category: "Business",
		relatedQuestions: []string{
			"What is the minimum order quantity?",
			"Do you provide invoices?",
			"Can I get credit terms?",
		},
	},
	{
		keywords: []string{"cancel", "cancellation", "order cancel"},
		question: "Can I cancel my order?",
		answer:   "Yes, you can cancel orders before they are shipped. Once shipped, cancellation is not possible but you can return after delivery. No cancellation charges for orders cancelled within 24 hours.",
		category: "Orders",
		relatedQuestions: []string{
			"How do I cancel my order?",
			"Will I get full refund?",
			"What if order is already shipped?",
		},
	},
}

// FAQ answers common questions by keyword scoring over a fixed
// knowledge base.
type FAQ struct {
	logger *zap.Logger
}

// NewFAQ creates the FAQ executor.
func NewFAQ(logger *zap.Logger) *FAQ {
	return &FAQ{logger: logger}
}

// Execute returns the best matching FAQ entry. Each keyword found in
// the query scores one point; ties keep the earlier entry, and a query
// matching nothing falls back to the first entry.
func (f *FAQ) Execute(query string) FAQAnswer {
	entry := findBestFAQ(query)
	f.logger.Debug("faq matched", zap.String("question", entry.question))
	return FAQAnswer{
		Question:         entry.question,
		Answer:           entry.answer,
		Category:         entry.category,
		RelatedQuestions: entry.relatedQuestions,
	}
}

func findBestFAQ(query string) faqEntry {
	queryLower := strings.ToLower(query)

	best := faqEntries[0]
	bestScore := 0
	for _, entry := range faqEntries {
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(queryLower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = entry
		}
	}
	return best
}
