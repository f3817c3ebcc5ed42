package domain

import (
	"errors"
	"time"
)

var ErrRecommendationNotFound = errors.New("recommendation not found")

// Advisory texts, one per classification tier. The wording is part of the
// product surface and is matched verbatim by tests.
const (
	AdviceBelowAverage = "Congratulations! Your energy usage is below average."
	AdviceAboveAverage = "Consider reducing energy usage. Your usage is higher than usual."
	AdviceWeeklyHigh   = "Warning! Your energy usage today is the highest recorded in the past week."
	AdviceNeutral      = "No specific recommendation for today. Continue to monitor energy usage."
)

// Recommendation is a persisted advisory derived from a user's recent
// readings. Append-only; re-generating inserts fresh rows.
type Recommendation struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Type      UtilityType `json:"energy_type"`
	Date      time.Time   `json:"date"`
	Text      string      `json:"recommendation"`
	CreatedAt time.Time   `json:"created_at"`
}
