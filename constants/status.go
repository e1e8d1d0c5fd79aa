package constants

// RunStatus is the status reported for an assistant run.
type RunStatus string

// Stable values (these exact strings come back from the API).
const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusCancelled  RunStatus = "cancelled"
	RunStatusExpired    RunStatus = "expired"
	RunStatusFailed     RunStatus = "failed"
)

// Terminal reports whether a run has finished, for better or worse.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusCancelled, RunStatusExpired, RunStatusFailed:
		return true
	}
	return false
}

// BatchStatus is the status of a vector store file batch.
type BatchStatus string

const (
	BatchStatusInProgress BatchStatus = "in_progress"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusCancelled  BatchStatus = "cancelled"
	BatchStatusFailed     BatchStatus = "failed"
)

func (s BatchStatus) Terminal() bool {
	switch s {
	case BatchStatusCompleted, BatchStatusCancelled, BatchStatusFailed:
		return true
	}
	return false
}

// JournalStatus is the canonical status for rows in submission_runs.
type JournalStatus string

const (
	JournalStatusRunning  JournalStatus = "RUNNING"
	JournalStatusArchived JournalStatus = "ARCHIVED"
	JournalStatusFailed   JournalStatus = "FAILED"
)
