package registry

import (
	"encoding/json"
	"slices"
)

// ActivityRegistry is the catalogue of job types served by the worker
// manager, kept as JSON under configs/.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one job type. The schemas are JSON schema documents for
// the job variables and are kept verbatim.
type Activity struct {
	ID                   string          `json:"id"`
	DisplayName          string          `json:"displayName"`
	Description          string          `json:"description"`
	Category             string          `json:"category"`
	Version              string          `json:"version"`
	TaskType             string          `json:"taskType"`
	ImplementationStatus string          `json:"implementationStatus"`
	Process              string          `json:"process,omitempty"`
	InputSchema          json.RawMessage `json:"inputSchema,omitempty"`
	OutputSchema         json.RawMessage `json:"outputSchema,omitempty"`
	ErrorCodes           []string        `json:"errorCodes"`
	Timeout              string          `json:"timeout"`
	Retries              int             `json:"retries"`
	Tags                 []string        `json:"tags,omitempty"`
}

func (a Activity) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}
