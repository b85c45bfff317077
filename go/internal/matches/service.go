package matches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"connectrpc.com/connect"

	matchv1 "github.com/mcdev12/matchbook/go/internal/api/matchv1"
	"github.com/mcdev12/matchbook/go/internal/api/matchv1/matchv1connect"
	"github.com/mcdev12/matchbook/go/internal/models"
)

// MatchesApp defines what the service layer needs from the matches application
type MatchesApp interface {
	ListMatches(ctx context.Context) []models.Match
	ListMatchesGroupedByDay(ctx context.Context) []DayGroup
	AddMatch(ctx context.Context, req AddMatchRequest) (*models.Match, error)
	RemoveMatch(ctx context.Context, id string) error
	TimeSlots() []string
	SlotMode() SlotMode
	Location() *time.Location
}

// Service implements the MatchService Connect interface
type Service struct {
	app       MatchesApp
	presenter *Presenter
}

// NewService creates a new matches Connect service
func NewService(app MatchesApp, presenter *Presenter) *Service {
	return &Service{
		app:       app,
		presenter: presenter,
	}
}

// Verify that Service implements the MatchServiceHandler interface
var _ matchv1connect.MatchServiceHandler = (*Service)(nil)

// ListMatches returns every match in date then time order
func (s *Service) ListMatches(ctx context.Context, req *connect.Request[matchv1.ListMatchesRequest]) (*connect.Response[matchv1.ListMatchesResponse], error) {
	matches := s.app.ListMatches(ctx)

	protoMatches := make([]*matchv1.Match, 0, len(matches))
	for i := range matches {
		protoMatches = append(protoMatches, s.matchToProto(&matches[i]))
	}

	return connect.NewResponse(&matchv1.ListMatchesResponse{
		Matches: protoMatches,
	}), nil
}

// ListMatchesByDay returns the matches grouped by calendar day with display text
func (s *Service) ListMatchesByDay(ctx context.Context, req *connect.Request[matchv1.ListMatchesByDayRequest]) (*connect.Response[matchv1.ListMatchesByDayResponse], error) {
	groups := s.app.ListMatchesGroupedByDay(ctx)

	resp := &matchv1.ListMatchesByDayResponse{
		Days:  make([]*matchv1.DayGroup, 0, len(groups)),
		Empty: len(groups) == 0,
	}
	if resp.Empty {
		resp.Message = s.presenter.NoMatches()
	}
	for _, g := range groups {
		day := &matchv1.DayGroup{
			Day:     g.Day,
			Heading: s.presenter.DayHeading(g.Date),
			Summary: s.presenter.DaySummary(len(g.Matches)),
			Matches: make([]*matchv1.Match, 0, len(g.Matches)),
		}
		for i := range g.Matches {
			day.Matches = append(day.Matches, s.matchToProto(&g.Matches[i]))
		}
		resp.Days = append(resp.Days, day)
	}

	return connect.NewResponse(resp), nil
}

// AddMatch books a new match
func (s *Service) AddMatch(ctx context.Context, req *connect.Request[matchv1.AddMatchRequest]) (*connect.Response[matchv1.AddMatchResponse], error) {
	appReq, err := s.protoToAddMatchRequest(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	match, err := s.app.AddMatch(ctx, appReq)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.New(s.presenter.ValidationNotice(verr)))
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&matchv1.AddMatchResponse{
		Match:   s.matchToProto(match),
		Message: s.presenter.MatchAdded(match.CustomerName),
	}), nil
}

// RemoveMatch deletes a match. Unknown ids succeed.
func (s *Service) RemoveMatch(ctx context.Context, req *connect.Request[matchv1.RemoveMatchRequest]) (*connect.Response[matchv1.RemoveMatchResponse], error) {
	if strings.TrimSpace(req.Msg.Id) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("id is required"))
	}

	if err := s.app.RemoveMatch(ctx, req.Msg.Id); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&matchv1.RemoveMatchResponse{
		Message: s.presenter.MatchRemoved(),
	}), nil
}

// ListTimeSlots returns the bookable times and match types
func (s *Service) ListTimeSlots(ctx context.Context, req *connect.Request[matchv1.ListTimeSlotsRequest]) (*connect.Response[matchv1.ListTimeSlotsResponse], error) {
	types := models.MatchTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}

	return connect.NewResponse(&matchv1.ListTimeSlotsResponse{
		Mode:       string(s.app.SlotMode()),
		Slots:      s.app.TimeSlots(),
		MatchTypes: names,
	}), nil
}

// Helper methods for conversion

func (s *Service) matchToProto(match *models.Match) *matchv1.Match {
	protoMatch := &matchv1.Match{
		Id:           match.ID,
		Date:         match.Date.Format(time.RFC3339),
		Day:          DayKey(match.Date, s.app.Location()),
		Time:         match.Time,
		CustomerName: match.CustomerName,
		PlayerCount:  int32(match.PlayerCount),
		Notes:        match.Notes,
		MatchType:    string(match.MatchType),
	}
	if !match.CreatedAt.IsZero() {
		protoMatch.CreatedAt = match.CreatedAt.Format(time.RFC3339)
	}
	return protoMatch
}

func (s *Service) protoToAddMatchRequest(proto *matchv1.AddMatchRequest) (AddMatchRequest, error) {
	req := AddMatchRequest{
		Time:         proto.Time,
		CustomerName: proto.CustomerName,
		PlayerCount:  int(proto.PlayerCount),
		Notes:        proto.Notes,
		MatchType:    models.MatchType(proto.MatchType),
	}
	if proto.Date != "" {
		date, err := parseRequestDate(proto.Date, s.app.Location())
		if err != nil {
			return AddMatchRequest{}, err
		}
		req.Date = date
	}
	return req, nil
}

func parseRequestDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-MM-dd or RFC 3339", s)
	}
	return t, nil
}
