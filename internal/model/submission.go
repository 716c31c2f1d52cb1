package model

import "time"

// PinCategory names a category that can be pinned for comparison.
type PinCategory string

const (
	PinHousing        PinCategory = "housing"
	PinTransportation PinCategory = "transportation"
)

// PinnedChoice is a frozen snapshot of one alternative in a category.
type PinnedChoice struct {
	ID          string         `json:"id"`
	Category    PinCategory    `json:"category"`
	Label       string         `json:"label"`
	Snapshot    map[string]any `json:"snapshot"`
	EvidenceIDs []string       `json:"evidence_ids"`
	PinnedAt    time.Time      `json:"pinned_at"`
}

// Student identifies who a submission belongs to.
type Student struct {
	Name    string `json:"name,omitempty"`
	Class   string `json:"class,omitempty"`
	Teacher string `json:"teacher,omitempty"`
}

// Submission is the whole worksheet: raw inputs, reflections and the values
// derived from them.
type Submission struct {
	ID               string              `json:"id"`
	SchemaVersion    string              `json:"schema_version"`
	ConstantsVersion string              `json:"constants_version"`
	Student          Student             `json:"student"`
	Inputs           Inputs              `json:"inputs"`
	Reflections      map[string]string   `json:"reflections"`
	Derived          DerivedTotals       `json:"derived"`
	Flags            ReadinessFlags      `json:"flags"`
	Pinned           []PinnedChoice      `json:"pinned"`
	EvidenceRefs     map[string][]string `json:"evidence_refs"`
	UpdatedAt        time.Time           `json:"updated_at"`
}
