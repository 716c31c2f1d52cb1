// Package pinning freezes alternatives (a rental, a vehicle) so they can be
// compared after the worksheet moves on.
package pinning

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/movingout-dev/movingout/internal/activity"
	"github.com/movingout-dev/movingout/internal/budget"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/schema"
)

// Flag keys captured with every snapshot.
const (
	SnapshotAffordabilityFail = "affordability_fail"
	SnapshotDeficit           = "deficit"
	SnapshotFragileBuffer     = "fragile_buffer"
)

// evidenceFor links each category to the evidence that backs it.
var evidenceFor = map[model.PinCategory]model.EvidenceType{
	model.PinHousing:        model.EvidenceRentalAd,
	model.PinTransportation: model.EvidenceVehicleAd,
}

// Service creates and applies pinned choices for one worksheet schema.
type Service struct {
	schema *schema.Schema
	log    *activity.Log
	now    func() time.Time
	newID  func() string
}

// NewService returns a Service. log may be nil.
func NewService(s *schema.Schema, log *activity.Log) *Service {
	return &Service{
		schema: s,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Create snapshots the configured fields of a category from a submission
// whose derived totals and flags are current.
func (s *Service) Create(category model.PinCategory, sub *model.Submission) (model.PinnedChoice, error) {
	pc, ok := s.schema.PinCategory(category)
	if !ok {
		return model.PinnedChoice{}, fmt.Errorf("unknown pin category %q", category)
	}

	snapshot := make(map[string]any, len(pc.SnapshotFieldIDs)+3)
	for _, id := range pc.SnapshotFieldIDs {
		snapshot[id] = s.value(id, sub)
	}
	snapshot[SnapshotAffordabilityFail] = sub.Flags.AffordabilityFail
	snapshot[SnapshotDeficit] = sub.Flags.Deficit
	snapshot[SnapshotFragileBuffer] = sub.Flags.FragileBuffer

	label := strings.TrimSpace(sub.Inputs.Text(pc.LabelFieldID))
	if label == "" {
		label = string(category) + " choice"
	}

	evidenceIDs := []string{}
	if et, ok := evidenceFor[category]; ok {
		evidenceIDs = append(evidenceIDs, sub.EvidenceRefs[string(et)]...)
	}

	return model.PinnedChoice{
		ID:          s.newID(),
		Category:    category,
		Label:       label,
		Snapshot:    snapshot,
		EvidenceIDs: evidenceIDs,
		PinnedAt:    s.now().UTC(),
	}, nil
}

// value reads one snapshot field. Derived fields are looked up by compute key.
func (s *Service) value(id string, sub *model.Submission) any {
	f, ok := s.schema.Field(id)
	if !ok {
		return sub.Inputs[id]
	}
	switch f.Role {
	case schema.RoleDerived:
		v, ok := budget.Lookup(sub.Derived, f.ComputeKey)
		if !ok {
			return nil
		}
		return v.InexactFloat64()
	case schema.RoleReflection:
		return sub.Reflections[id]
	default:
		return sub.Inputs[id]
	}
}

// Pin creates a snapshot for category and applies it to the submission.
func (s *Service) Pin(category model.PinCategory, sub *model.Submission) (model.PinnedChoice, error) {
	pin, err := s.Create(category, sub)
	if err != nil {
		return model.PinnedChoice{}, err
	}
	sub.Pinned = Apply(sub.Pinned, pin)
	if s.log != nil {
		if _, err := s.log.Record(activity.PinAdd, string(category), pin.Label); err != nil {
			return pin, fmt.Errorf("logging pin: %w", err)
		}
	}
	return pin, nil
}

// Unpin removes the pin for category. It reports whether one was present.
func (s *Service) Unpin(category model.PinCategory, sub *model.Submission) (bool, error) {
	before := len(sub.Pinned)
	sub.Pinned = Remove(sub.Pinned, category)
	if len(sub.Pinned) == before {
		return false, nil
	}
	if s.log != nil {
		if _, err := s.log.Record(activity.PinRemove, string(category), ""); err != nil {
			return true, fmt.Errorf("logging unpin: %w", err)
		}
	}
	return true, nil
}

// Apply returns pins with any pin of the same category replaced by pin.
func Apply(pins []model.PinnedChoice, pin model.PinnedChoice) []model.PinnedChoice {
	return append(Remove(pins, pin.Category), pin)
}

// Remove returns pins without the pin of category.
func Remove(pins []model.PinnedChoice, category model.PinCategory) []model.PinnedChoice {
	out := make([]model.PinnedChoice, 0, len(pins))
	for _, p := range pins {
		if p.Category != category {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the pin of category.
func Find(pins []model.PinnedChoice, category model.PinCategory) (model.PinnedChoice, bool) {
	for _, p := range pins {
		if p.Category == category {
			return p, true
		}
	}
	return model.PinnedChoice{}, false
}
