package models

import "time"

// ConnectionState is the indicator shown next to each backend integration
type ConnectionState string

const (
	ConnectionOnline  ConnectionState = "online"
	ConnectionOffline ConnectionState = "offline"
	ConnectionUnknown ConnectionState = "unknown"
)

// IntegrationStatus is the last known health of one integration
type IntegrationStatus struct {
	Name      string          `json:"name"`
	Endpoint  string          `json:"endpoint"`
	State     ConnectionState `json:"state"`
	Detail    string          `json:"detail,omitempty"`
	CheckedAt time.Time       `json:"checked_at"`
}

// CircuitBreakerState tracks upstream reachability (closed means reachable)
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}
