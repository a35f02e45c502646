package metrics

import "time"

// ResultLabel enumerates operation result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultError   ResultLabel = "error"
)

// ResultOf maps an operation error to its label.
func ResultOf(err error) ResultLabel {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// Recorder defines observability hooks for habit operations. All methods
// must be safe to call on a nil *PrometheusRecorder so metrics can stay
// optional.
type Recorder interface {
	// ObserveOperation records one repository call (list, insert, update,
	// delete, delete_all) with its duration and outcome.
	ObserveOperation(op string, d time.Duration, result ResultLabel)
	// IncHolderFailure counts a queued mutation that failed in the holder.
	IncHolderFailure(op string)
	// SetHabitCounts reports the latest observed snapshot.
	SetHabitCounts(total, completed int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveOperation(string, time.Duration, ResultLabel) {}
func (NoopRecorder) IncHolderFailure(string)                            {}
func (NoopRecorder) SetHabitCounts(int, int)                            {}
