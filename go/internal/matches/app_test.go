package matches

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/suite"

	"github.com/mcdev12/matchbook/go/internal/events"
	"github.com/mcdev12/matchbook/go/internal/models"
	"github.com/mcdev12/matchbook/go/internal/storage/memory"
)

type recordingPublisher struct {
	events []events.Event
}

func (r *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	r.events = append(r.events, event)
	return nil
}

// failingSlot accepts reads and rejects every write
type failingSlot struct {
	writes int
}

func (f *failingSlot) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("not used")
}

func (f *failingSlot) Put(ctx context.Context, key string, value []byte) error {
	f.writes++
	return errors.New("quota exceeded")
}

func (f *failingSlot) Delete(ctx context.Context, key string) error {
	f.writes++
	return errors.New("quota exceeded")
}

func (f *failingSlot) Close() error { return nil }

// unreachableSlot fails every read and passes writes through to the wrapped slot
type unreachableSlot struct {
	*memory.Slot
	writes int
}

func (u *unreachableSlot) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (u *unreachableSlot) Put(ctx context.Context, key string, value []byte) error {
	u.writes++
	return u.Slot.Put(ctx, key, value)
}

func (u *unreachableSlot) Delete(ctx context.Context, key string) error {
	u.writes++
	return u.Slot.Delete(ctx, key)
}

type AppSuite struct {
	suite.Suite
	ctx   context.Context
	slot  *memory.Slot
	clock *clockwork.FakeClock
	loc   *time.Location
	pub   *recordingPublisher
	app   *App
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	s.ctx = context.Background()
	s.slot = memory.New()
	s.clock = clockwork.NewFakeClockAt(time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC))
	s.loc = time.FixedZone("BRT", -3*60*60)
	s.pub = &recordingPublisher{}
	s.app = s.newApp(nil)
	s.Require().NoError(s.app.Initialize(s.ctx))
}

func (s *AppSuite) newApp(newID func() string) *App {
	return NewApp(NewRepository(s.slot, s.loc), s.pub, Config{
		Clock:    s.clock,
		NewID:    newID,
		Location: s.loc,
	})
}

func (s *AppSuite) day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, s.loc)
}

func (s *AppSuite) add(date time.Time, at, customer string) *models.Match {
	match, err := s.app.AddMatch(s.ctx, AddMatchRequest{Date: date, Time: at, CustomerName: customer})
	s.Require().NoError(err)
	return match
}

func (s *AppSuite) order() []string {
	var out []string
	for _, m := range s.app.ListMatches(s.ctx) {
		out = append(out, DayKey(m.Date, s.loc)+" "+m.Time+" "+m.CustomerName)
	}
	return out
}

func (s *AppSuite) TestAddMatchKeepsDateTimeOrder() {
	s.add(s.day(2024, 6, 2), "08:00", "Carla")
	s.add(s.day(2024, 6, 1), "10:00", "Bruno")
	s.add(s.day(2024, 6, 1), "09:00", "Ana")
	s.add(s.day(2024, 6, 1), "09:00", "Davi")

	s.Equal([]string{
		"2024-06-01 09:00 Ana",
		"2024-06-01 09:00 Davi",
		"2024-06-01 10:00 Bruno",
		"2024-06-02 08:00 Carla",
	}, s.order())
}

func (s *AppSuite) TestAddMatchFillsDefaults() {
	afternoon := time.Date(2024, 6, 1, 15, 45, 0, 0, s.loc)

	match := s.add(afternoon, "09:00", "  Ana  ")

	s.NotEmpty(match.ID)
	s.Equal("Ana", match.CustomerName)
	s.Equal(models.DefaultPlayerCount, match.PlayerCount)
	s.Equal(models.MatchTypePaintball, match.MatchType)
	s.True(match.Date.Equal(s.day(2024, 6, 1)))
	s.True(match.CreatedAt.Equal(s.clock.Now()))
}

func (s *AppSuite) TestAddMatchKeepsExplicitFields() {
	match, err := s.app.AddMatch(s.ctx, AddMatchRequest{
		Date:         s.day(2024, 6, 1),
		Time:         "18:30",
		CustomerName: "Ana",
		PlayerCount:  14,
		Notes:        "aniversário",
		MatchType:    models.MatchTypeGellyball,
	})
	s.Require().NoError(err)

	s.Equal(14, match.PlayerCount)
	s.Equal("aniversário", match.Notes)
	s.Equal(models.MatchTypeGellyball, match.MatchType)
}

func (s *AppSuite) TestAddMatchRejectsInvalidRequests() {
	valid := AddMatchRequest{Date: s.day(2024, 6, 1), Time: "09:00", CustomerName: "Ana"}

	tests := []struct {
		name     string
		mutate   func(r *AddMatchRequest)
		field    string
		required bool
	}{
		{"missing date", func(r *AddMatchRequest) { r.Date = time.Time{} }, "date", true},
		{"missing time", func(r *AddMatchRequest) { r.Time = "" }, "time", true},
		{"blank customer", func(r *AddMatchRequest) { r.CustomerName = "   " }, "customerName", true},
		{"time off the slot grid", func(r *AddMatchRequest) { r.Time = "07:15" }, "time", false},
		{"time outside opening hours", func(r *AddMatchRequest) { r.Time = "23:00" }, "time", false},
		{"negative players", func(r *AddMatchRequest) { r.PlayerCount = -1 }, "playerCount", false},
		{"unknown match type", func(r *AddMatchRequest) { r.MatchType = "laser" }, "matchType", false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := valid
			tt.mutate(&req)

			match, err := s.app.AddMatch(s.ctx, req)

			s.Nil(match)
			s.ErrorIs(err, ErrValidation)
			var verr *ValidationError
			s.Require().ErrorAs(err, &verr)
			s.Equal(tt.field, verr.Field)
			s.Equal(tt.required, verr.Required)
		})
	}

	s.Empty(s.app.ListMatches(s.ctx))
	s.False(s.slot.Has(SnapshotKey))
	s.Empty(s.pub.events)
}

func (s *AppSuite) TestFreeSlotsAcceptAnyClockTime() {
	s.app = NewApp(NewRepository(s.slot, s.loc), nil, Config{Clock: s.clock, Location: s.loc, Slots: FreeSlots()})

	_, err := s.app.AddMatch(s.ctx, AddMatchRequest{Date: s.day(2024, 6, 1), Time: "07:15", CustomerName: "Ana"})
	s.NoError(err)

	_, err = s.app.AddMatch(s.ctx, AddMatchRequest{Date: s.day(2024, 6, 1), Time: "7:15", CustomerName: "Ana"})
	s.ErrorIs(err, ErrValidation)
	s.Nil(s.app.TimeSlots())
	s.Equal(SlotModeFree, s.app.SlotMode())
}

func (s *AppSuite) TestSnapshotSurvivesRestart() {
	_, err := s.app.AddMatch(s.ctx, AddMatchRequest{
		Date:         s.day(2024, 6, 2),
		Time:         "08:00",
		CustomerName: "Carla",
		PlayerCount:  12,
		Notes:        "traz coletes",
		MatchType:    models.MatchTypeGellyball,
	})
	s.Require().NoError(err)
	s.add(s.day(2024, 6, 1), "09:00", "Ana")
	before := s.app.ListMatches(s.ctx)

	restarted := s.newApp(nil)
	s.Require().NoError(restarted.Initialize(s.ctx))
	after := restarted.ListMatches(s.ctx)

	s.Require().Len(after, len(before))
	for i := range before {
		s.Equal(before[i].ID, after[i].ID)
		s.True(before[i].Date.Equal(after[i].Date))
		s.Equal(before[i].Time, after[i].Time)
		s.Equal(before[i].CustomerName, after[i].CustomerName)
		s.Equal(before[i].PlayerCount, after[i].PlayerCount)
		s.Equal(before[i].Notes, after[i].Notes)
		s.Equal(before[i].MatchType, after[i].MatchType)
		s.True(before[i].CreatedAt.Equal(after[i].CreatedAt))
	}
}

func (s *AppSuite) TestRemoveMatch() {
	ana := s.add(s.day(2024, 6, 1), "09:00", "Ana")
	s.add(s.day(2024, 6, 1), "10:00", "Bruno")

	s.Require().NoError(s.app.RemoveMatch(s.ctx, ana.ID))

	s.Equal([]string{"2024-06-01 10:00 Bruno"}, s.order())
	last := s.pub.events[len(s.pub.events)-1]
	s.Equal(events.EventTypeMatchRemoved, last.Type)
	s.Equal(ana.ID, last.MatchID)
	s.Equal(1, last.Count)
}

func (s *AppSuite) TestRemoveUnknownMatchIsNoop() {
	s.add(s.day(2024, 6, 1), "09:00", "Ana")
	published := len(s.pub.events)
	stored, err := s.slot.Get(s.ctx, SnapshotKey)
	s.Require().NoError(err)

	s.NoError(s.app.RemoveMatch(s.ctx, "missing"))
	s.NoError(s.app.RemoveMatch(s.ctx, "missing"))

	s.Len(s.app.ListMatches(s.ctx), 1)
	s.Len(s.pub.events, published)
	again, err := s.slot.Get(s.ctx, SnapshotKey)
	s.Require().NoError(err)
	s.Equal(stored, again)
}

func (s *AppSuite) TestRemoveMatchTwiceIsIdempotent() {
	ana := s.add(s.day(2024, 6, 1), "09:00", "Ana")
	s.add(s.day(2024, 6, 1), "10:00", "Bruno")

	s.Require().NoError(s.app.RemoveMatch(s.ctx, ana.ID))
	once := s.app.ListMatches(s.ctx)
	stored, err := s.slot.Get(s.ctx, SnapshotKey)
	s.Require().NoError(err)
	published := len(s.pub.events)

	s.Require().NoError(s.app.RemoveMatch(s.ctx, ana.ID))

	s.Equal(once, s.app.ListMatches(s.ctx))
	again, err := s.slot.Get(s.ctx, SnapshotKey)
	s.Require().NoError(err)
	s.Equal(stored, again)
	s.Len(s.pub.events, published)
}

func (s *AppSuite) TestRemovingLastMatchClearsSnapshot() {
	ana := s.add(s.day(2024, 6, 1), "09:00", "Ana")
	s.True(s.slot.Has(SnapshotKey))

	s.Require().NoError(s.app.RemoveMatch(s.ctx, ana.ID))

	s.Empty(s.app.ListMatches(s.ctx))
	s.False(s.slot.Has(SnapshotKey))
}

func (s *AppSuite) TestListMatchesGroupedByDay() {
	s.add(s.day(2024, 6, 2), "08:00", "Carla")
	s.add(s.day(2024, 6, 1), "10:00", "Bruno")
	s.add(s.day(2024, 6, 1), "09:00", "Ana")

	groups := s.app.ListMatchesGroupedByDay(s.ctx)

	s.Require().Len(groups, 2)
	s.Equal("2024-06-01", groups[0].Day)
	s.Require().Len(groups[0].Matches, 2)
	s.Equal("09:00", groups[0].Matches[0].Time)
	s.Equal("10:00", groups[0].Matches[1].Time)
	s.Equal("2024-06-02", groups[1].Day)
	s.Require().Len(groups[1].Matches, 1)
	s.Equal("08:00", groups[1].Matches[0].Time)
	s.True(groups[1].Date.Equal(s.day(2024, 6, 2)))
}

func (s *AppSuite) TestCollidingIDSourceStillYieldsDistinctIDs() {
	s.app = s.newApp(TimestampIDs(s.clock))

	first := s.add(s.day(2024, 6, 1), "09:00", "Ana")
	second := s.add(s.day(2024, 6, 1), "10:00", "Bruno")
	third := s.add(s.day(2024, 6, 1), "11:00", "Carla")

	base := first.ID
	s.Equal(base+"-2", second.ID)
	s.Equal(base+"-3", third.ID)
}

func (s *AppSuite) TestEmptyIDSourceFallsBack() {
	s.app = s.newApp(func() string { return "" })

	match := s.add(s.day(2024, 6, 1), "09:00", "Ana")

	s.NotEmpty(match.ID)
}

func (s *AppSuite) TestAddPublishesEvent() {
	match := s.add(s.day(2024, 6, 1), "09:00", "Ana")

	s.Require().Len(s.pub.events, 1)
	event := s.pub.events[0]
	s.Equal(events.EventTypeMatchAdded, event.Type)
	s.Equal(match.ID, event.MatchID)
	s.Equal(1, event.Count)
	s.Require().NotNil(event.Match)
	s.Equal("Ana", event.Match.CustomerName)
}

func (s *AppSuite) TestAddMatchLogLineHasSingleTimeField() {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf).With().Timestamp().Logger()
	defer func() { log.Logger = previous }()

	s.add(s.day(2024, 6, 1), "09:00", "Ana")

	line := strings.TrimSpace(buf.String())
	s.Equal(1, strings.Count(line, `"time":`))
	var fields map[string]interface{}
	s.Require().NoError(json.Unmarshal([]byte(line), &fields))
	s.Equal("match added", fields["message"])
	s.Equal("09:00", fields["slot"])
	s.Equal("2024-06-01", fields["day"])
}

func (s *AppSuite) TestPersistenceFailureDegradesToMemory() {
	slot := &failingSlot{}
	app := NewApp(NewRepository(slot, s.loc), nil, Config{Clock: s.clock, Location: s.loc})

	first, err := app.AddMatch(s.ctx, AddMatchRequest{Date: s.day(2024, 6, 1), Time: "09:00", CustomerName: "Ana"})
	s.Require().NoError(err)
	_, err = app.AddMatch(s.ctx, AddMatchRequest{Date: s.day(2024, 6, 1), Time: "10:00", CustomerName: "Bruno"})
	s.Require().NoError(err)
	s.Require().NoError(app.RemoveMatch(s.ctx, first.ID))

	s.True(app.Degraded())
	s.Equal(1, slot.writes)
	s.Len(app.ListMatches(s.ctx), 1)
}

func (s *AppSuite) TestMalformedSnapshotStartsEmpty() {
	s.Require().NoError(s.slot.Put(s.ctx, SnapshotKey, []byte(`{not json`)))
	app := s.newApp(nil)

	err := app.Initialize(s.ctx)

	s.ErrorIs(err, ErrLoad)
	var lerr *LoadError
	s.ErrorAs(err, &lerr)
	s.Empty(app.ListMatches(s.ctx))

	_, err = app.AddMatch(s.ctx, AddMatchRequest{Date: s.day(2024, 6, 1), Time: "09:00", CustomerName: "Ana"})
	s.NoError(err)
	s.False(app.Degraded())
}

func (s *AppSuite) TestUnreachableSlotKeepsStoredMatches() {
	s.add(s.day(2024, 6, 1), "09:00", "Ana")
	s.add(s.day(2024, 6, 1), "10:00", "Bruno")
	s.add(s.day(2024, 6, 2), "08:00", "Carla")

	slot := &unreachableSlot{Slot: s.slot}
	app := NewApp(NewRepository(slot, s.loc), nil, Config{Clock: s.clock, Location: s.loc})

	err := app.Initialize(s.ctx)

	s.ErrorIs(err, ErrPersistence)
	s.NotErrorIs(err, ErrLoad)
	var perr *PersistenceError
	s.Require().ErrorAs(err, &perr)
	s.Equal("read", perr.Op)
	s.True(app.Degraded())
	s.Empty(app.ListMatches(s.ctx))

	added, err := app.AddMatch(s.ctx, AddMatchRequest{Date: s.day(2024, 6, 3), Time: "09:00", CustomerName: "Davi"})
	s.Require().NoError(err)
	s.Require().NoError(app.RemoveMatch(s.ctx, added.ID))
	s.Zero(slot.writes)

	s.app = s.newApp(nil)
	s.Require().NoError(s.app.Initialize(s.ctx))
	s.Equal([]string{
		"2024-06-01 09:00 Ana",
		"2024-06-01 10:00 Bruno",
		"2024-06-02 08:00 Carla",
	}, s.order())
}

func (s *AppSuite) TestInitializeSortsLoadedSnapshot() {
	raw := `[
		{"id":"b","date":"2024-06-02","time":"08:00","customerName":"Carla","playerCount":10},
		{"id":"a","date":"2024-06-01","time":"10:00","customerName":"Bruno","playerCount":10},
		{"id":"c","date":"2024-06-01","time":"09:00","customerName":"Ana","playerCount":10}
	]`
	s.Require().NoError(s.slot.Put(s.ctx, SnapshotKey, []byte(raw)))
	app := s.newApp(nil)

	s.Require().NoError(app.Initialize(s.ctx))

	var ids []string
	for _, m := range app.ListMatches(s.ctx) {
		ids = append(ids, m.ID)
	}
	s.Equal([]string{"c", "a", "b"}, ids)
}

func (s *AppSuite) TestListMatchesReturnsCopy() {
	s.add(s.day(2024, 6, 1), "09:00", "Ana")

	listed := s.app.ListMatches(s.ctx)
	listed[0].CustomerName = "changed"

	s.Equal("Ana", s.app.ListMatches(s.ctx)[0].CustomerName)
}
