package model

import "time"

// SmartGuess is a confirmed (location, category) observation used to predict
// categories for future intervals.
type SmartGuess struct {
	ID         string    `json:"id"`
	Category   Category  `json:"category"`
	Location   Location  `json:"location"`
	LastUsed   time.Time `json:"last_used"`
	ErrorCount int       `json:"error_count"`
}
