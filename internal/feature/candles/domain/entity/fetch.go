package entity

import (
	"fmt"
	"strings"
	"time"
)

// Interval is a provider candle interval.
type Interval string

const (
	OneMinute     Interval = "ONE_MINUTE"
	ThreeMinute   Interval = "THREE_MINUTE"
	FiveMinute    Interval = "FIVE_MINUTE"
	TenMinute     Interval = "TEN_MINUTE"
	FifteenMinute Interval = "FIFTEEN_MINUTE"
	ThirtyMinute  Interval = "THIRTY_MINUTE"
	OneHour       Interval = "ONE_HOUR"
	OneDay        Interval = "ONE_DAY"
)

var supportedIntervals = map[Interval]struct{}{
	OneMinute: {}, ThreeMinute: {}, FiveMinute: {}, TenMinute: {},
	FifteenMinute: {}, ThirtyMinute: {}, OneHour: {}, OneDay: {},
}

// ParseInterval normalizes and validates an interval name.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := supportedIntervals[iv]; !ok {
		return "", fmt.Errorf("unsupported interval: %q", s)
	}
	return iv, nil
}

// FetchRequest describes one historical candle request.
type FetchRequest struct {
	Exchange string
	Token    string
	Interval string
	From     time.Time
	To       time.Time
}

// ResponseKind classifies a provider response decoded at the boundary.
type ResponseKind int

const (
	// ResponseSuccess carries rows (possibly none).
	ResponseSuccess ResponseKind = iota
	// ResponseFailure is an explicit failure status with a message.
	ResponseFailure
	// ResponseMalformed is a body that does not conform to the expected shape.
	ResponseMalformed
)

func (k ResponseKind) String() string {
	switch k {
	case ResponseSuccess:
		return "success"
	case ResponseFailure:
		return "failure"
	case ResponseMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// sessionExpiredMarker is the message fragment the provider uses for an expired session.
const sessionExpiredMarker = "Invalid session"

// FetchResponse is the typed variant of a provider reply.
type FetchResponse struct {
	Kind      ResponseKind
	Rows      []RawRow // Success only
	Message   string   // Failure only
	ErrorCode string   // Failure only
	Detail    string   // Malformed only: why the body was rejected
}

// Success builds a success response.
func Success(rows []RawRow) FetchResponse {
	return FetchResponse{Kind: ResponseSuccess, Rows: rows}
}

// Failure builds an explicit failure response.
func Failure(message, code string) FetchResponse {
	return FetchResponse{Kind: ResponseFailure, Message: message, ErrorCode: code}
}

// Malformed builds a malformed response.
func Malformed(detail string) FetchResponse {
	return FetchResponse{Kind: ResponseMalformed, Detail: detail}
}

// IsSessionExpired reports whether the response is the provider's invalid-session signal.
func (r FetchResponse) IsSessionExpired() bool {
	return r.Kind == ResponseFailure && strings.Contains(r.Message, sessionExpiredMarker)
}
