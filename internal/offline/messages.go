package offline

import (
	"receipt-dashboard/internal/dto"
)

// MessageType names a control message the dashboard can post to the worker
type MessageType string

const (
	MessageSkipWaiting   MessageType = "SKIP_WAITING"
	MessageQueueMutation MessageType = "QUEUE_MUTATION"
	MessageSync          MessageType = "SYNC"
	MessageClearCache    MessageType = "CLEAR_CACHE"
	MessageGetVersion    MessageType = "GET_VERSION"
)

// Message is one control message. The reply is delivered on the channel the
// worker creates when the message is posted.
type Message struct {
	Type     MessageType
	Tag      string
	Mutation *dto.QueuedRequest

	reply chan dto.WorkerMessageResponse
}

// VersionInfo is the GET_VERSION payload
type VersionInfo struct {
	Version string `json:"version"`
	State   string `json:"state"`
}

// MessageFromRequest converts the HTTP control body
func MessageFromRequest(req dto.WorkerMessageRequest) Message {
	return Message{
		Type:     MessageType(req.Type),
		Tag:      req.Tag,
		Mutation: req.Mutation,
	}
}

func okReply(t MessageType, payload interface{}) dto.WorkerMessageResponse {
	return dto.WorkerMessageResponse{Type: string(t), OK: true, Payload: payload}
}

func errReply(t MessageType, err error) dto.WorkerMessageResponse {
	return dto.WorkerMessageResponse{Type: string(t), OK: false, Error: err.Error()}
}
