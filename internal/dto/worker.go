package dto

import "time"

// WorkerMessageRequest is the body of POST /__worker/message
type WorkerMessageRequest struct {
	Type     string         `json:"type" validate:"required,oneof=SKIP_WAITING SYNC CLEAR_CACHE GET_VERSION QUEUE_MUTATION"`
	Tag      string         `json:"tag,omitempty"`
	Mutation *QueuedRequest `json:"mutation,omitempty"`
}

// WorkerMessageResponse is the reply to a control message
type WorkerMessageResponse struct {
	Type    string      `json:"type"`
	OK      bool        `json:"ok"`
	Error   string      `json:"error,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// WorkerStatus describes the registration for the status endpoint
type WorkerStatus struct {
	ActiveVersion  string   `json:"active_version,omitempty"`
	WaitingVersion string   `json:"waiting_version,omitempty"`
	ActiveState    string   `json:"active_state,omitempty"`
	CacheNames     []string `json:"cache_names"`
	PendingQueue   int64    `json:"pending_queue"`
	Online         bool     `json:"online"`
}

// SyncReport summarizes one drain of the pending mutation queue
type SyncReport struct {
	Tag          string        `json:"tag"`
	Attempted    int           `json:"attempted"`
	Acknowledged int           `json:"acknowledged"`
	Failed       int           `json:"failed"`
	Remaining    int64         `json:"remaining"`
	Duration     time.Duration `json:"duration"`
}

// QueuedRequest is a replayable write: what the dashboard would have sent had
// the backend been reachable
type QueuedRequest struct {
	Method  string            `json:"method" validate:"required,oneof=POST PUT PATCH DELETE"`
	URL     string            `json:"url" validate:"required"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body,omitempty"`
}
