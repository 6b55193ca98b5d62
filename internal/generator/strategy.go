package generator

import "time"

// Strategy is one step in the retry ladder: how much content to send,
// how long to wait, and how hot to sample. Later rungs shrink the
// content and deadline while raising temperature slightly to compensate
// for the reduced material.
type Strategy struct {
	Label        string
	ContentLimit int
	Timeout      time.Duration
	Temperature  float64
}

// Stage is the user-facing description emitted before an attempt runs
// under this strategy.
func (s Strategy) Stage(attempt int) string {
	if attempt == 0 {
		return "Creating your game..."
	}
	return "Still working, retrying with " + s.Label + "..."
}

// DefaultStrategies is the production retry ladder.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Label: "full content", ContentLimit: 9000, Timeout: 45 * time.Second, Temperature: 0.7},
		{Label: "reduced content", ContentLimit: 6000, Timeout: 30 * time.Second, Temperature: 0.8},
		{Label: "a short summary", ContentLimit: 3000, Timeout: 20 * time.Second, Temperature: 0.9},
	}
}
