package matches

import (
	"time"

	"github.com/mcdev12/matchbook/go/internal/models"
)

// AddMatchRequest represents the caller-supplied fields of a new match
type AddMatchRequest struct {
	Date         time.Time        `json:"date"`
	Time         string           `json:"time"`
	CustomerName string           `json:"customerName"`
	PlayerCount  int              `json:"playerCount"` // 0 means DefaultPlayerCount
	Notes        string           `json:"notes"`
	MatchType    models.MatchType `json:"matchType"` // empty means paintball
}

// DayGroup holds the matches that share a calendar day
type DayGroup struct {
	Day     string         `json:"day"` // yyyy-MM-dd in the store location
	Date    time.Time      `json:"date"`
	Matches []models.Match `json:"matches"`
}
