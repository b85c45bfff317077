// Package matchv1connect wires the match API to Connect handlers and clients.
package matchv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	matchv1 "github.com/mcdev12/matchbook/go/internal/api/matchv1"
)

// MatchServiceName is the fully-qualified name of the MatchService service.
const MatchServiceName = "matchbook.v1.MatchService"

const (
	MatchServiceListMatchesProcedure      = "/matchbook.v1.MatchService/ListMatches"
	MatchServiceListMatchesByDayProcedure = "/matchbook.v1.MatchService/ListMatchesByDay"
	MatchServiceAddMatchProcedure         = "/matchbook.v1.MatchService/AddMatch"
	MatchServiceRemoveMatchProcedure      = "/matchbook.v1.MatchService/RemoveMatch"
	MatchServiceListTimeSlotsProcedure    = "/matchbook.v1.MatchService/ListTimeSlots"
)

// MatchServiceClient is a client for the matchbook.v1.MatchService service.
type MatchServiceClient interface {
	ListMatches(context.Context, *connect.Request[matchv1.ListMatchesRequest]) (*connect.Response[matchv1.ListMatchesResponse], error)
	ListMatchesByDay(context.Context, *connect.Request[matchv1.ListMatchesByDayRequest]) (*connect.Response[matchv1.ListMatchesByDayResponse], error)
	AddMatch(context.Context, *connect.Request[matchv1.AddMatchRequest]) (*connect.Response[matchv1.AddMatchResponse], error)
	RemoveMatch(context.Context, *connect.Request[matchv1.RemoveMatchRequest]) (*connect.Response[matchv1.RemoveMatchResponse], error)
	ListTimeSlots(context.Context, *connect.Request[matchv1.ListTimeSlotsRequest]) (*connect.Response[matchv1.ListTimeSlotsResponse], error)
}

// NewMatchServiceClient constructs a client for the matchbook.v1.MatchService service.
// The JSON codec is always applied first.
func NewMatchServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MatchServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(matchv1.JSONCodec{})}, opts...)
	return &matchServiceClient{
		listMatches: connect.NewClient[matchv1.ListMatchesRequest, matchv1.ListMatchesResponse](
			httpClient, baseURL+MatchServiceListMatchesProcedure, opts...,
		),
		listMatchesByDay: connect.NewClient[matchv1.ListMatchesByDayRequest, matchv1.ListMatchesByDayResponse](
			httpClient, baseURL+MatchServiceListMatchesByDayProcedure, opts...,
		),
		addMatch: connect.NewClient[matchv1.AddMatchRequest, matchv1.AddMatchResponse](
			httpClient, baseURL+MatchServiceAddMatchProcedure, opts...,
		),
		removeMatch: connect.NewClient[matchv1.RemoveMatchRequest, matchv1.RemoveMatchResponse](
			httpClient, baseURL+MatchServiceRemoveMatchProcedure, opts...,
		),
		listTimeSlots: connect.NewClient[matchv1.ListTimeSlotsRequest, matchv1.ListTimeSlotsResponse](
			httpClient, baseURL+MatchServiceListTimeSlotsProcedure, opts...,
		),
	}
}

type matchServiceClient struct {
	listMatches      *connect.Client[matchv1.ListMatchesRequest, matchv1.ListMatchesResponse]
	listMatchesByDay *connect.Client[matchv1.ListMatchesByDayRequest, matchv1.ListMatchesByDayResponse]
	addMatch         *connect.Client[matchv1.AddMatchRequest, matchv1.AddMatchResponse]
	removeMatch      *connect.Client[matchv1.RemoveMatchRequest, matchv1.RemoveMatchResponse]
	listTimeSlots    *connect.Client[matchv1.ListTimeSlotsRequest, matchv1.ListTimeSlotsResponse]
}

func (c *matchServiceClient) ListMatches(ctx context.Context, req *connect.Request[matchv1.ListMatchesRequest]) (*connect.Response[matchv1.ListMatchesResponse], error) {
	return c.listMatches.CallUnary(ctx, req)
}

func (c *matchServiceClient) ListMatchesByDay(ctx context.Context, req *connect.Request[matchv1.ListMatchesByDayRequest]) (*connect.Response[matchv1.ListMatchesByDayResponse], error) {
	return c.listMatchesByDay.CallUnary(ctx, req)
}

func (c *matchServiceClient) AddMatch(ctx context.Context, req *connect.Request[matchv1.AddMatchRequest]) (*connect.Response[matchv1.AddMatchResponse], error) {
	return c.addMatch.CallUnary(ctx, req)
}

func (c *matchServiceClient) RemoveMatch(ctx context.Context, req *connect.Request[matchv1.RemoveMatchRequest]) (*connect.Response[matchv1.RemoveMatchResponse], error) {
	return c.removeMatch.CallUnary(ctx, req)
}

func (c *matchServiceClient) ListTimeSlots(ctx context.Context, req *connect.Request[matchv1.ListTimeSlotsRequest]) (*connect.Response[matchv1.ListTimeSlotsResponse], error) {
	return c.listTimeSlots.CallUnary(ctx, req)
}

// MatchServiceHandler is an implementation of the matchbook.v1.MatchService service.
type MatchServiceHandler interface {
	ListMatches(context.Context, *connect.Request[matchv1.ListMatchesRequest]) (*connect.Response[matchv1.ListMatchesResponse], error)
	ListMatchesByDay(context.Context, *connect.Request[matchv1.ListMatchesByDayRequest]) (*connect.Response[matchv1.ListMatchesByDayResponse], error)
	AddMatch(context.Context, *connect.Request[matchv1.AddMatchRequest]) (*connect.Response[matchv1.AddMatchResponse], error)
	RemoveMatch(context.Context, *connect.Request[matchv1.RemoveMatchRequest]) (*connect.Response[matchv1.RemoveMatchResponse], error)
	ListTimeSlots(context.Context, *connect.Request[matchv1.ListTimeSlotsRequest]) (*connect.Response[matchv1.ListTimeSlotsResponse], error)
}

// NewMatchServiceHandler builds an HTTP handler from the service implementation. It returns
// the path on which to mount the handler and the handler itself.
func NewMatchServiceHandler(svc MatchServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(matchv1.JSONCodec{})}, opts...)
	listMatchesHandler := connect.NewUnaryHandler(MatchServiceListMatchesProcedure, svc.ListMatches, opts...)
	listMatchesByDayHandler := connect.NewUnaryHandler(MatchServiceListMatchesByDayProcedure, svc.ListMatchesByDay, opts...)
	addMatchHandler := connect.NewUnaryHandler(MatchServiceAddMatchProcedure, svc.AddMatch, opts...)
	removeMatchHandler := connect.NewUnaryHandler(MatchServiceRemoveMatchProcedure, svc.RemoveMatch, opts...)
	listTimeSlotsHandler := connect.NewUnaryHandler(MatchServiceListTimeSlotsProcedure, svc.ListTimeSlots, opts...)
	return "/matchbook.v1.MatchService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case MatchServiceListMatchesProcedure:
			listMatchesHandler.ServeHTTP(w, r)
		case MatchServiceListMatchesByDayProcedure:
			listMatchesByDayHandler.ServeHTTP(w, r)
		case MatchServiceAddMatchProcedure:
			addMatchHandler.ServeHTTP(w, r)
		case MatchServiceRemoveMatchProcedure:
			removeMatchHandler.ServeHTTP(w, r)
		case MatchServiceListTimeSlotsProcedure:
			listTimeSlotsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
