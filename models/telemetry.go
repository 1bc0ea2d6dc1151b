package models

import (
	"bytes"
	"encoding/json"
)

// LogEntry is one telemetry record exactly as the client sent it.
// The server never looks inside it.
type LogEntry = json.RawMessage

// emptyValues are the JSON values rejected as "no data"
var emptyValues = map[string]bool{
	`null`:  true,
	`false`: true,
	`0`:     true,
	`""`:    true,
	`{}`:    true,
	`[]`:    true,
}

// IsEmptyEntry reports whether a compact JSON value carries no data
func IsEmptyEntry(entry LogEntry) bool {
	trimmed := bytes.TrimSpace(entry)
	if len(trimmed) == 0 {
		return true
	}
	if emptyValues[string(trimmed)] {
		return true
	}

	// numbers like 0.0 or -0e3 are zero too
	if trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9') {
		var f float64
		if err := json.Unmarshal(trimmed, &f); err == nil && f == 0 {
			return true
		}
	}

	return false
}

// StatusResponse is the acknowledgement and error body shape
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Vitals summarises the store for the dashboard
type Vitals struct {
	UplinkStatus string `json:"uplink_status"`
	EntryCount   int    `json:"entry_count"`
}

// DashboardHistory is the payload of the history endpoint
type DashboardHistory struct {
	History []LogEntry `json:"history"`
	Vitals  Vitals     `json:"vitals"`
}

// UplinkActive is the only uplink status the service reports
const UplinkActive = "ACTIVE"
