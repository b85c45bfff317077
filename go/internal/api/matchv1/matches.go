// Package matchv1 holds the wire messages of the match booking API.
// Messages travel as JSON; dates are yyyy-MM-dd or RFC 3339 strings.
package matchv1

type Match struct {
	Id           string `json:"id"`
	Date         string `json:"date"` // RFC 3339
	Day          string `json:"day"`  // yyyy-MM-dd in the store location
	Time         string `json:"time"`
	CustomerName string `json:"customerName"`
	PlayerCount  int32  `json:"playerCount"`
	Notes        string `json:"notes,omitempty"`
	MatchType    string `json:"matchType"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

type DayGroup struct {
	Day     string   `json:"day"`
	Heading string   `json:"heading"`
	Summary string   `json:"summary"`
	Matches []*Match `json:"matches"`
}

type ListMatchesRequest struct{}

type ListMatchesResponse struct {
	Matches []*Match `json:"matches"`
}

type ListMatchesByDayRequest struct{}

type ListMatchesByDayResponse struct {
	Days    []*DayGroup `json:"days"`
	Empty   bool        `json:"empty"`
	Message string      `json:"message,omitempty"`
}

type AddMatchRequest struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	CustomerName string `json:"customerName"`
	PlayerCount  int32  `json:"playerCount,omitempty"`
	Notes        string `json:"notes,omitempty"`
	MatchType    string `json:"matchType,omitempty"`
}

type AddMatchResponse struct {
	Match   *Match `json:"match"`
	Message string `json:"message"`
}

type RemoveMatchRequest struct {
	Id string `json:"id"`
}

type RemoveMatchResponse struct {
	Message string `json:"message"`
}

type ListTimeSlotsRequest struct{}

type ListTimeSlotsResponse struct {
	Mode       string   `json:"mode"`
	Slots      []string `json:"slots,omitempty"`
	MatchTypes []string `json:"matchTypes"`
}
