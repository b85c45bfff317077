package models

import "time"

// MatchType represents the kind of game played in a match
type MatchType string

const (
	MatchTypePaintball MatchType = "paintball"
	MatchTypeGellyball MatchType = "gellyball"
)

// DefaultPlayerCount is used when a booking does not say how many players are coming
const DefaultPlayerCount = 10

// MatchTypes lists the known match types in display order
func MatchTypes() []MatchType {
	return []MatchType{MatchTypePaintball, MatchTypeGellyball}
}

// Valid reports whether t is one of the known match types
func (t MatchType) Valid() bool {
	switch t {
	case MatchTypePaintball, MatchTypeGellyball:
		return true
	default:
		return false
	}
}

// Match represents a scheduled match session on the field
type Match struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"` // zero-padded HH:MM
	CustomerName string    `json:"customerName"`
	PlayerCount  int       `json:"playerCount"`
	Notes        string    `json:"notes"`
	MatchType    MatchType `json:"matchType"`
	CreatedAt    time.Time `json:"createdAt"`
}
