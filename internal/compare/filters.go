package compare

import "strings"

var refurbishedKeywords = []string{
	"refurbished", "restored", "renewed", "pre-owned",
	"used", "like new", "open box", "b-grade",
	"condition: good", "condition: fair", "previously owned",
	"second hand", "reconditioned",
}

var financingKeywords = []string{
	"month", "/month", "per month", "monthly",
	"emi", "finance", "financing", "payment plan",
	"subscription", "per year", "yearly",
	"installment", "terms apply", "apr",
}

var carriers = []string{"at&t", "at&amp;t", "verizon", "sprint", "tmobile", "t-mobile"}

func containsAny(s string, words []string) bool {
	s = strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// IsBrandNew reports whether a listing title carries no refurbished marker.
func IsBrandNew(title string) bool {
	return !containsAny(title, refurbishedKeywords)
}

// IsOutrightPrice rejects price texts that describe instalments or plans.
func IsOutrightPrice(price string) bool {
	if strings.TrimSpace(price) == "" {
		return false
	}
	return !containsAny(price, financingKeywords)
}

func IsCarrierLocked(title string) bool {
	return containsAny(title, carriers)
}
