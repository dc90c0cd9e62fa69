package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event shape emitted by marketplace
// modules. Observers reconstruct state from these events without re-querying,
// so the contract must stay backward compatible.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceModule  string          `json:"source_module"`
	TraceID       string          `json:"trace_id"`
	SchemaVersion int             `json:"schema_version"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	Data          json.RawMessage `json:"data"`
}
