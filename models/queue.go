package models

import "time"

// Queue item lifecycle: waiting -> in-progress -> completed | failed.
// Transitions are driven by the call pump and the orchestrator; clients
// only observe them through the status endpoint and the SSE stream.
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// QueueItem is one pending consultation request as stored on the Redis
// waiting list.
type QueueItem struct {
	QueueID       string     `json:"queueId"`
	VulnerableID  string     `json:"vulnerableId"`
	QuestionSetID string     `json:"questionSetId"`
	AccountID     string     `json:"accountId"`
	State         string     `json:"state"`
	CreatedTime   time.Time  `json:"createdTime"`
	StartTime     *time.Time `json:"startTime,omitempty"`
	EndTime       *time.Time `json:"endTime,omitempty"`
}

// ConsultationStatus is the live tracked state of one consultation, keyed
// by vulnerable id. Version is monotonic per key; stale versions are
// discarded during reconciliation.
type ConsultationStatus struct {
	VulnerableID   string `json:"vId"`
	VulnerableName string `json:"vName"`
	QuestionSetID  string `json:"qId"`
	QuestionTitle  string `json:"qTitle"`
	Status         string `json:"status"`
	CurrentStep    string `json:"currentStep,omitempty"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
	Version        int64  `json:"version"`
}

// QueueProgress is the derived aggregate over the status board.
type QueueProgress struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	Percentage float64        `json:"percentage"` // (completed+failed)/total * 100
}
