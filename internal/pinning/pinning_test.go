package pinning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movingout-dev/movingout/internal/activity"
	"github.com/movingout-dev/movingout/internal/budget"
	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/schema"
)

var pinTime = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func testService(log *activity.Log) *Service {
	svc := NewService(schema.Default(), log)
	svc.now = func() time.Time { return pinTime }
	n := 0
	svc.newID = func() string {
		n++
		return []string{"pin-1", "pin-2", "pin-3"}[n-1]
	}
	return svc
}

func testSubmission() *model.Submission {
	inputs := model.Inputs{
		model.FieldIncomeMode:    "hourly_estimate",
		model.FieldHourlyWage:    24.0,
		model.FieldHoursPerWeek:  28.0,
		model.FieldOtherIncome:   140.0,
		"housing_label":          "  Maple St basement suite ",
		model.FieldRent:          1100.0,
		model.FieldUtilities:     170.0,
		model.FieldRentSourceURL: "https://rentals.example/maple",
		model.FieldTransportMode: "transit",
		model.FieldSavings:       100.0,
	}
	return &model.Submission{
		Inputs:  inputs,
		Derived: budget.Compute(inputs, constants.Default()),
		Flags:   model.ReadinessFlags{AffordabilityFail: true},
		EvidenceRefs: map[string][]string{
			string(model.EvidenceRentalAd): {"ev-rental"},
		},
	}
}

func TestCreate_Housing(t *testing.T) {
	pin, err := testService(nil).Create(model.PinHousing, testSubmission())
	require.NoError(t, err)

	assert.Equal(t, "pin-1", pin.ID)
	assert.Equal(t, model.PinHousing, pin.Category)
	assert.Equal(t, "Maple St basement suite", pin.Label)
	assert.Equal(t, []string{"ev-rental"}, pin.EvidenceIDs)
	assert.Equal(t, pinTime, pin.PinnedAt)

	assert.Equal(t, 1100.0, pin.Snapshot[model.FieldRent])
	assert.Equal(t, "https://rentals.example/maple", pin.Snapshot[model.FieldRentSourceURL])
	assert.Nil(t, pin.Snapshot[model.FieldRenterInsurance])
	assert.Equal(t, 1270.0, pin.Snapshot["housing_monthly_total"])
	assert.Equal(t, 0.52, pin.Snapshot["housing_affordability_ratio"])
	assert.Equal(t, true, pin.Snapshot[SnapshotAffordabilityFail])
	assert.Equal(t, false, pin.Snapshot[SnapshotDeficit])
	assert.Equal(t, false, pin.Snapshot[SnapshotFragileBuffer])
}

func TestCreate_TransportationDefaults(t *testing.T) {
	pin, err := testService(nil).Create(model.PinTransportation, testSubmission())
	require.NoError(t, err)

	assert.Equal(t, "transportation choice", pin.Label)
	assert.Equal(t, []string{}, pin.EvidenceIDs)
	assert.Equal(t, "transit", pin.Snapshot[model.FieldTransportMode])
	assert.Equal(t, 105.0, pin.Snapshot["transport_monthly_total"])
	assert.Equal(t, 0.0, pin.Snapshot["transport_loan_payment_monthly"])
}

func TestCreate_UnknownCategory(t *testing.T) {
	_, err := testService(nil).Create("groceries", testSubmission())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pin category")
}

func TestCreate_SnapshotIsFrozen(t *testing.T) {
	sub := testSubmission()
	pin, err := testService(nil).Create(model.PinHousing, sub)
	require.NoError(t, err)

	sub.Inputs[model.FieldRent] = 900.0
	sub.EvidenceRefs[string(model.EvidenceRentalAd)][0] = "changed"
	assert.Equal(t, 1100.0, pin.Snapshot[model.FieldRent])
	assert.Equal(t, []string{"ev-rental"}, pin.EvidenceIDs)
}

func TestApply_ReplacesSameCategory(t *testing.T) {
	pins := []model.PinnedChoice{
		{ID: "a", Category: model.PinHousing},
		{ID: "b", Category: model.PinTransportation},
	}
	out := Apply(pins, model.PinnedChoice{ID: "c", Category: model.PinHousing})

	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
	assert.Equal(t, "a", pins[0].ID, "input slice is not modified")
}

func TestRemoveAndFind(t *testing.T) {
	pins := []model.PinnedChoice{
		{ID: "a", Category: model.PinHousing},
		{ID: "b", Category: model.PinTransportation},
	}
	out := Remove(pins, model.PinHousing)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ID)

	_, ok := Find(out, model.PinHousing)
	assert.False(t, ok)
	p, ok := Find(out, model.PinTransportation)
	assert.True(t, ok)
	assert.Equal(t, "b", p.ID)
}

func TestPinUnpin_LogsActivity(t *testing.T) {
	log := activity.New(t.TempDir())
	svc := testService(log)
	sub := testSubmission()

	_, err := svc.Pin(model.PinHousing, sub)
	require.NoError(t, err)
	_, err = svc.Pin(model.PinHousing, sub)
	require.NoError(t, err)
	require.Len(t, sub.Pinned, 1)
	assert.Equal(t, "pin-2", sub.Pinned[0].ID)

	removed, err := svc.Unpin(model.PinHousing, sub)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = svc.Unpin(model.PinHousing, sub)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, sub.Pinned)

	entries, err := log.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, activity.PinAdd, entries[0].Event)
	assert.Equal(t, "Maple St basement suite", entries[0].Details)
	assert.Equal(t, activity.PinRemove, entries[2].Event)
	assert.Equal(t, "housing", entries[2].Subject)
}
