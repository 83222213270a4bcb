package domain

import "time"

type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeUpstreamFailure Outcome = "upstream_failure"
	OutcomeUpstreamError   Outcome = "upstream_error"
	OutcomeInvalid         Outcome = "invalid"
)

type Source string

const (
	SourceHTTP Source = "http"
	SourceForm Source = "form"
	SourceMQTT Source = "mqtt"
)

// QueryEvent describes how a query went. It never carries the plate or any amount.
type QueryEvent struct {
	Outcome        Outcome   `json:"outcome"`
	Source         Source    `json:"source"`
	UpstreamStatus int       `json:"upstream_status"`
	DurationMS     int64     `json:"duration_ms"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type QueryStats struct {
	Since         time.Time       `json:"since"`
	Total         int             `json:"total"`
	ByOutcome     map[Outcome]int `json:"by_outcome"`
	AvgDurationMS float64         `json:"avg_duration_ms"`
}
