package services

import "strings"

// FallbackReply returns a canned reply matched on message keywords,
// served instead of an inference completion when fallback mode is
// enabled and the model server is unreachable.
func FallbackReply(message string) string {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, "brenda", "about", "experience", "background"):
		return "I'm The Intersect, Brenda Hensley's AI knowledge database. While my full AI capabilities are temporarily unavailable, I can tell you that Brenda is an AppSec Engineer specializing in cybersecurity.\n\n" +
			"For detailed information about her experience, services, and background, please visit https://tampertantrumlabs.com or email hensley.brenda@protonmail.com.\n\n" +
			"I'll be back to full functionality shortly!"

	case containsAny(lower, "services", "offer", "business", "tampertantrum"):
		return "TamperTantrum Labs offers comprehensive cybersecurity services including application security engineering, security assessments and penetration testing, and cybersecurity consulting.\n\n" +
			"While my AI processing is temporarily offline, you can get full details at https://tampertantrumlabs.com or hensley.brenda@protonmail.com."

	case containsAny(lower, "contact", "email", "reach", "connect"):
		return "You can reach Brenda Hensley at hensley.brenda@protonmail.com or https://tampertantrumlabs.com.\n\n" +
			"I'm The Intersect, Brenda's AI assistant. I'm experiencing technical difficulties right now, but I'll be back soon with full conversational capabilities!"

	default:
		return "Hello! I'm The Intersect, Brenda Hensley's AI knowledge database. I'm currently experiencing technical difficulties with my AI processing, but I can still help you with basic information.\n\n" +
			"Brenda is a cybersecurity expert specializing in AppSec Engineering. For detailed information, please visit https://tampertantrumlabs.com or email hensley.brenda@protonmail.com.\n\n" +
			"I should be back to full functionality shortly. Thank you for your patience!"
	}
}

func containsAny(s string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}
