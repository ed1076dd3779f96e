package domain

// Suggestions returns conversation starters offered to new customers.
func Suggestions() []string {
	return []string{
		"What wines do you recommend for a dinner party?",
		"How can I track my order?",
		"What is your return policy?",
		"Tell me about wine pairings",
		"What are your shipping options?",
		"Do you have any special offers?",
		"What's the difference between red and white wines?",
		"How should I store wine?",
		"What wines go well with seafood?",
		"Can you help me choose a gift wine?",
	}
}
