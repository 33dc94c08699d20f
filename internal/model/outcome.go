package model

// Status is the closed set of engine outcome states.
type Status string

const (
	StatusInProgress         Status = "in_progress"
	StatusCompleted          Status = "completed"
	StatusCompletedNoResults Status = "completed_no_results"
	StatusPartial            Status = "partial"
	StatusQuotaExceeded      Status = "partial_quota_exceeded"
	StatusFailed             Status = "failed"
	StatusFailedNoSearchTerm Status = "failed_no_search_terms"
	StatusFailedAPIError     Status = "failed_api_error"
	StatusFailedDatabase     Status = "failed_database_error"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s != StatusInProgress
}

// Outcome is the result envelope every engine returns. It starts in_progress
// and moves to a terminal state through exactly one transition: once a
// terminal status is set, later transitions are ignored, so the first
// classified failure or completion wins for the whole run.
type Outcome struct {
	Status      Status         `json:"status"`
	Reason      string         `json:"status_reason"`
	QuotaUsed   int            `json:"quota_used,omitempty"`
	DataFetched bool           `json:"data_fetched,omitempty"`
	Stats       map[string]int `json:"stats,omitempty"`
}

// NewOutcome returns an in-progress outcome with an empty stats map.
func NewOutcome() *Outcome {
	return &Outcome{
		Status: StatusInProgress,
		Stats:  make(map[string]int),
	}
}

// Terminal reports whether the outcome reached an end state.
func (o *Outcome) Terminal() bool {
	return o.Status.Terminal()
}

// Add increments a named counter.
func (o *Outcome) Add(stat string, n int) {
	o.Stats[stat] += n
}

// Complete marks the run fully successful.
func (o *Outcome) Complete(reason string) {
	o.transition(StatusCompleted, reason)
}

// CompleteNoResults marks a successful run that found nothing.
func (o *Outcome) CompleteNoResults(reason string) {
	o.transition(StatusCompletedNoResults, reason)
}

// Partial marks a run that produced incomplete results.
func (o *Outcome) Partial(reason string) {
	o.transition(StatusPartial, reason)
}

// QuotaExceeded marks a run halted by the daily quota limit.
func (o *Outcome) QuotaExceeded(reason string) {
	o.transition(StatusQuotaExceeded, reason)
}

// Fail marks the run failed with one of the failed_* statuses.
func (o *Outcome) Fail(status Status, reason string) {
	o.transition(status, reason)
}

func (o *Outcome) transition(status Status, reason string) {
	if o.Status.Terminal() {
		return
	}
	o.Status = status
	o.Reason = reason
}
