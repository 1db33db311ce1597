// Package report defines the render-event data types emitted by revue.
// These are the public API contract: any consumer (sinks, the debug API,
// MCP tools, custom pipelines) imports this package to receive and process
// render observations.
package report

import "encoding/json"

// UnknownComponent is the sentinel identity used when a component declares
// no explicit name and none can be inferred from its definition.
const UnknownComponent = "UnknownVueComponent"

// ChangeEntry is a reserved slot for future state/prop diffing. The tracker
// never populates it; the field exists so the wire format is stable when
// diffing lands.
type ChangeEntry struct {
	Name     string `json:"name"`
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`
}

// RenderRecord captures one render occurrence of a component. The store
// keeps at most one live record per component name: a later render for the
// same name overwrites the earlier record.
type RenderRecord struct {
	ComponentName string        `json:"component_name"`
	Changes       []ChangeEntry `json:"changes"` // always empty, reserved
	UpdateCount   int           `json:"update_count"`
	Timestamp     int64         `json:"timestamp"` // epoch milliseconds
}

// Report pairs a component name with its latest record, as returned by
// Store.AllReports.
type Report struct {
	Name   string       `json:"name"`
	Record RenderRecord `json:"record"`
}

// MarshalRecord serialises a record as JSON.
func MarshalRecord(r *RenderRecord) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalRecord parses a JSON record.
func UnmarshalRecord(data []byte) (*RenderRecord, error) {
	var r RenderRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
