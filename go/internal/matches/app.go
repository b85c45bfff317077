package matches

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/matchbook/go/internal/events"
	"github.com/mcdev12/matchbook/go/internal/models"
)

// MatchesRepository defines what the app layer needs from the repository
type MatchesRepository interface {
	Load(ctx context.Context) ([]models.Match, error)
	Save(ctx context.Context, matches []models.Match) error
	Clear(ctx context.Context) error
}

// Config tunes an App. Zero values fall back to defaults.
type Config struct {
	Clock    clockwork.Clock
	NewID    func() string
	Location *time.Location
	Slots    *SlotPolicy
}

// App owns the in-memory match collection and mirrors every change to the repository
type App struct {
	repo      MatchesRepository
	publisher events.Publisher
	clock     clockwork.Clock
	newID     func() string
	loc       *time.Location
	slots     *SlotPolicy

	mu       sync.RWMutex
	matches  []models.Match
	degraded bool
}

// NewApp creates a new matches App. publisher may be nil.
func NewApp(repo MatchesRepository, publisher events.Publisher, cfg Config) *App {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Slots == nil {
		slots, _ := NewFixedSlots(DefaultTimeSlots())
		cfg.Slots = slots
	}
	return &App{
		repo:      repo,
		publisher: publisher,
		clock:     cfg.Clock,
		newID:     cfg.NewID,
		loc:       cfg.Location,
		slots:     cfg.Slots,
		matches:   []models.Match{},
	}
}

// TimestampIDs returns an id source based on the clock's Unix milliseconds.
// Ids repeat within the same millisecond.
func TimestampIDs(clock clockwork.Clock) func() string {
	return func() string {
		return strconv.FormatInt(clock.Now().UnixMilli(), 10)
	}
}

// Initialize loads the persisted collection. On error the store starts empty.
// A malformed snapshot returns a *LoadError and the next write replaces it.
// An unreachable slot returns a *PersistenceError and the store stops writing,
// so the snapshot it could not read is never overwritten.
func (a *App) Initialize(ctx context.Context) error {
	loaded, err := a.repo.Load(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.matches = []models.Match{}
		var perr *PersistenceError
		if errors.As(err, &perr) {
			a.degraded = true
			return perr
		}
		return &LoadError{Err: err}
	}

	slices.SortStableFunc(loaded, byDayThenTime(a.loc))
	a.matches = loaded
	log.Info().Int("matches", len(loaded)).Msg("match store initialized")
	return nil
}

// ListMatches returns a copy of the collection in date then time order
func (a *App) ListMatches(ctx context.Context) []models.Match {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.matches)
}

// ListMatchesGroupedByDay returns the collection partitioned by calendar day
func (a *App) ListMatchesGroupedByDay(ctx context.Context) []DayGroup {
	return GroupByDay(a.ListMatches(ctx), a.loc)
}

// AddMatch validates req, assigns an id and creation time, and inserts the match in order
func (a *App) AddMatch(ctx context.Context, req AddMatchRequest) (*models.Match, error) {
	if err := a.validateAddMatchRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	match := models.Match{
		Date:         startOfDay(req.Date, a.loc),
		Time:         req.Time,
		CustomerName: strings.TrimSpace(req.CustomerName),
		PlayerCount:  req.PlayerCount,
		Notes:        req.Notes,
		MatchType:    req.MatchType,
		CreatedAt:    a.clock.Now(),
	}
	if match.PlayerCount == 0 {
		match.PlayerCount = models.DefaultPlayerCount
	}
	if match.MatchType == "" {
		match.MatchType = models.MatchTypePaintball
	}

	a.mu.Lock()
	match.ID = a.uniqueID()
	updated := append(slices.Clone(a.matches), match)
	slices.SortStableFunc(updated, byDayThenTime(a.loc))
	a.matches = updated
	a.persist(ctx, updated)
	count := len(updated)
	a.mu.Unlock()

	log.Info().
		Str("match_id", match.ID).
		Str("customer", match.CustomerName).
		Str("day", DayKey(match.Date, a.loc)).
		Str("slot", match.Time).
		Msg("match added")

	a.publish(ctx, events.NewEvent(events.EventTypeMatchAdded, match, count, match.CreatedAt))
	return &match, nil
}

// RemoveMatch deletes the match with id. Unknown ids are a no-op.
func (a *App) RemoveMatch(ctx context.Context, id string) error {
	a.mu.Lock()
	idx := slices.IndexFunc(a.matches, func(m models.Match) bool { return m.ID == id })
	if idx < 0 {
		a.mu.Unlock()
		log.Debug().Str("match_id", id).Msg("remove ignored, match not found")
		return nil
	}

	removed := a.matches[idx]
	updated := slices.Delete(slices.Clone(a.matches), idx, idx+1)
	a.matches = updated
	a.persist(ctx, updated)
	count := len(updated)
	a.mu.Unlock()

	log.Info().Str("match_id", id).Msg("match removed")

	a.publish(ctx, events.NewEvent(events.EventTypeMatchRemoved, removed, count, a.clock.Now()))
	return nil
}

// TimeSlots returns the bookable times, or nil when any HH:MM is accepted
func (a *App) TimeSlots() []string {
	return a.slots.Slots()
}

func (a *App) SlotMode() SlotMode {
	return a.slots.Mode()
}

func (a *App) Location() *time.Location {
	return a.loc
}

// Degraded reports whether persistence has been abandoned for this session
func (a *App) Degraded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.degraded
}

// persist writes the collection. The first failure is logged and stops
// further writes; the in-memory state stays authoritative. Caller holds mu.
func (a *App) persist(ctx context.Context, matches []models.Match) {
	if a.degraded {
		return
	}

	var err error
	if len(matches) == 0 {
		if cerr := a.repo.Clear(ctx); cerr != nil {
			err = &PersistenceError{Op: "clear", Err: cerr}
		}
	} else if serr := a.repo.Save(ctx, matches); serr != nil {
		err = &PersistenceError{Op: "save", Err: serr}
	}

	if err != nil {
		a.degraded = true
		log.Warn().Err(err).Msg("persistence unavailable, continuing in memory only")
	}
}

func (a *App) publish(ctx context.Context, event events.Event) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		log.Error().Err(err).Str("event_type", string(event.Type)).Msg("failed to publish store event")
	}
}

// uniqueID draws from the id source and suffixes repeats until the id is free. Caller holds mu.
func (a *App) uniqueID() string {
	base := a.newID()
	if base == "" {
		base = uuid.NewString()
	}
	id := base
	for n := 2; a.hasID(id); n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

func (a *App) hasID(id string) bool {
	return slices.ContainsFunc(a.matches, func(m models.Match) bool { return m.ID == id })
}

// validateAddMatchRequest validates the add match request
func (a *App) validateAddMatchRequest(req AddMatchRequest) error {
	if req.Date.IsZero() {
		return missing("date")
	}
	if req.Time == "" {
		return missing("time")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return missing("customerName")
	}
	if !a.slots.Allows(req.Time) {
		if a.slots.Mode() == SlotModeFree {
			return invalid("time", "must be HH:MM, got %q", req.Time)
		}
		return invalid("time", "%q is not a bookable slot", req.Time)
	}
	if req.PlayerCount < 0 {
		return invalid("playerCount", "must not be negative, got %d", req.PlayerCount)
	}
	if req.MatchType != "" && !req.MatchType.Valid() {
		return invalid("matchType", "unknown match type %q", req.MatchType)
	}
	return nil
}

// IsValidation reports whether err is a rejected request rather than a store failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// GroupByDay partitions matches by calendar day in loc, keeping the first-seen
// order of days and the input order within each day
func GroupByDay(matches []models.Match, loc *time.Location) []DayGroup {
	var groups []DayGroup
	index := make(map[string]int)
	for _, m := range matches {
		key := DayKey(m.Date, loc)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Day: key, Date: startOfDay(m.Date, loc)})
		}
		groups[i].Matches = append(groups[i].Matches, m)
	}
	return groups
}

// DayKey formats t as yyyy-MM-dd in loc
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// byDayThenTime orders matches by calendar day in loc, then by HH:MM
func byDayThenTime(loc *time.Location) func(a, b models.Match) int {
	return func(a, b models.Match) int {
		if c := strings.Compare(DayKey(a.Date, loc), DayKey(b.Date, loc)); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	}
}
