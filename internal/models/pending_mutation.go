package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MutationStatusPending      = "pending"
	MutationStatusAcknowledged = "acknowledged"
)

// PendingMutation is a write request the dashboard could not deliver.
// Items are replayed in Sequence order by background sync until the backend acknowledges them.
type PendingMutation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Sequence       int64      `gorm:"not null;index:idx_pending_mutations_queue,priority:3" json:"sequence"`
	Tag            string     `gorm:"type:varchar(100);not null;index:idx_pending_mutations_queue,priority:1" json:"tag"`
	Method         string     `gorm:"type:varchar(10);not null" json:"method"`
	URL            string     `gorm:"type:text;not null" json:"url"`
	Headers        HeaderMap  `gorm:"type:text" json:"headers,omitempty"`
	Body           []byte     `json:"body,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_pending_mutations_queue,priority:2" json:"status"`
	Attempts       int        `gorm:"not null;default:0" json:"attempts"`
	LastError      string     `gorm:"type:text" json:"last_error,omitempty"`
	LastAttemptAt  *time.Time `json:"last_attempt_at,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (*PendingMutation) TableName() string {
	return "pending_mutations"
}

func (m *PendingMutation) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = MutationStatusPending
	}
	return m.Validate()
}

// Validate checks the fields needed to replay the request
func (m *PendingMutation) Validate() error {
	if m.Tag == "" {
		return fmt.Errorf("sync tag is required")
	}
	if m.URL == "" {
		return fmt.Errorf("request URL is required")
	}
	switch m.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return nil
	default:
		return fmt.Errorf("method %q cannot be queued", m.Method)
	}
}

// IsPending reports whether the mutation still awaits delivery
func (m *PendingMutation) IsPending() bool {
	return m.Status == MutationStatusPending
}

// HeaderMap stores the replayable subset of request headers as JSON text
type HeaderMap map[string]string

// Value implements driver.Valuer interface
func (h HeaderMap) Value() (driver.Value, error) {
	if len(h) == 0 {
		return nil, nil
	}
	bytes, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan implements sql.Scanner interface
func (h *HeaderMap) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into HeaderMap", value)
	}

	if len(bytes) == 0 {
		*h = nil
		return nil
	}

	return json.Unmarshal(bytes, h)
}

// HeaderMapFrom copies the headers worth replaying
func HeaderMapFrom(header http.Header) HeaderMap {
	replayable := []string{"Content-Type", "Accept", "X-Trace-ID", "X-Requested-With"}
	result := make(HeaderMap)
	for _, key := range replayable {
		if v := header.Get(key); v != "" {
			result[key] = v
		}
	}
	return result
}
