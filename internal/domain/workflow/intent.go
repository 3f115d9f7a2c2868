package workflow

// Intent is the classified purpose of a user message, driving module
// dispatch.
type Intent string

const (
	IntentGeneral        Intent = "general_query"
	IntentOrderQuery     Intent = "order_query"
	IntentCancellation   Intent = "cancellation"
	IntentRefund         Intent = "refund_query"
	IntentServiceEnquiry Intent = "service_enquiry"
	IntentFAQ            Intent = "faq_support"
)

// ParseIntent maps a raw tag to an Intent. Unknown tags report ok=false;
// callers fall back to IntentGeneral.
func ParseIntent(s string) (Intent, bool) {
	switch i := Intent(s); i {
	case IntentGeneral, IntentOrderQuery, IntentCancellation,
		IntentRefund, IntentServiceEnquiry, IntentFAQ:
		return i, true
	default:
		return IntentGeneral, false
	}
}
