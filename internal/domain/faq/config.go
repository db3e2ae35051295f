package faq

// DefaultThreshold is the minimum cosine similarity for a match.
const DefaultThreshold = 0.6

// DefaultFallbackMessage is shown to users when no entry scores above the threshold.
const DefaultFallbackMessage = "Sorry, I couldn't understand that. Please rephrase."

// Config holds runtime knobs for the FAQ service.
type Config struct {
	Threshold          float64
	FallbackMessage    string
	TopRecommendations int
}
