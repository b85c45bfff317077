package matches

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/matchbook/go/internal/models"
)

// SnapshotKey is the slot key holding the serialized collection
const SnapshotKey = "matches"

const dayLayout = "2006-01-02"

// snapshotRecord is the persisted form of a match. AdditionalInfo is the
// older name of Notes and is only read.
type snapshotRecord struct {
	ID             string           `json:"id"`
	Date           string           `json:"date"`
	Time           string           `json:"time"`
	CustomerName   string           `json:"customerName"`
	PlayerCount    int              `json:"playerCount"`
	Notes          string           `json:"notes,omitempty"`
	AdditionalInfo string           `json:"additionalInfo,omitempty"`
	MatchType      models.MatchType `json:"matchType,omitempty"`
	CreatedAt      *time.Time       `json:"createdAt,omitempty"`
}

// EncodeSnapshot serializes matches as a JSON array with ISO-8601 UTC dates
func EncodeSnapshot(matches []models.Match) ([]byte, error) {
	records := make([]snapshotRecord, 0, len(matches))
	for _, m := range matches {
		rec := snapshotRecord{
			ID:           m.ID,
			Date:         m.Date.UTC().Format(time.RFC3339Nano),
			Time:         m.Time,
			CustomerName: m.CustomerName,
			PlayerCount:  m.PlayerCount,
			Notes:        m.Notes,
			MatchType:    m.MatchType,
		}
		if !m.CreatedAt.IsZero() {
			created := m.CreatedAt.UTC()
			rec.CreatedAt = &created
		}
		records = append(records, rec)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot written by EncodeSnapshot or by older
// versions of the app. Plain yyyy-MM-dd dates are read in loc.
// Records repeating an earlier id are skipped.
func DecodeSnapshot(data []byte, loc *time.Location) ([]models.Match, error) {
	var records []snapshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	matches := make([]models.Match, 0, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("snapshot record %d has no id", i)
		}
		if _, dup := seen[rec.ID]; dup {
			log.Warn().Str("match_id", rec.ID).Msg("skipping duplicate match id in snapshot")
			continue
		}
		seen[rec.ID] = struct{}{}

		date, err := parseSnapshotDate(rec.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("snapshot record %s: %w", rec.ID, err)
		}

		m := models.Match{
			ID:           rec.ID,
			Date:         date,
			Time:         rec.Time,
			CustomerName: rec.CustomerName,
			PlayerCount:  rec.PlayerCount,
			Notes:        rec.Notes,
			MatchType:    rec.MatchType,
		}
		if m.Notes == "" {
			m.Notes = rec.AdditionalInfo
		}
		if m.MatchType == "" {
			m.MatchType = models.MatchTypePaintball
		}
		if m.PlayerCount == 0 {
			m.PlayerCount = models.DefaultPlayerCount
		}
		if rec.CreatedAt != nil {
			m.CreatedAt = *rec.CreatedAt
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func parseSnapshotDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}
