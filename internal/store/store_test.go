package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movingout-dev/movingout/internal/budget"
	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "movingout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSubmission_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.LoadSubmission(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	inputs := model.Inputs{
		model.FieldIncomeMode:    "hourly_estimate",
		model.FieldHourlyWage:    24.0,
		model.FieldHoursPerWeek:  28.0,
		model.FieldRent:          1100.0,
		model.FieldTransportMode: "transit",
	}
	sub := &model.Submission{
		ID:          "sub-1",
		Inputs:      inputs,
		Reflections: map[string]string{"reflection_housing_choice": "Near work."},
		Derived:     budget.Compute(inputs, constants.Default()),
		UpdatedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveSubmission(ctx, sub))

	got, err := s.LoadSubmission(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", got.ID)
	assert.Equal(t, 24.0, got.Inputs[model.FieldHourlyWage])
	assert.Equal(t, "Near work.", got.Reflections["reflection_housing_choice"])
	assert.Equal(t, sub.Derived.MonthlySurplus.StringFixed(2), got.Derived.MonthlySurplus.StringFixed(2))
	assert.True(t, sub.UpdatedAt.Equal(got.UpdatedAt))

	sub.ID = "sub-2"
	require.NoError(t, s.SaveSubmission(ctx, sub))
	got, err = s.LoadSubmission(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sub-2", got.ID)
}

func TestConstants_Override(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.LoadConstants(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	c := constants.Default().Clone()
	c.ConstantsVersion = "2026.1-local"
	c.Transportation.TransitPassDefault.Value = 110
	require.NoError(t, s.SaveConstants(ctx, c))

	got, err := s.LoadConstants(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026.1-local", got.ConstantsVersion)
	assert.Equal(t, 110.0, got.Transportation.TransitPassDefault.Value)
	assert.Equal(t, c.Transportation.LoanTable.Points, got.Transportation.LoanTable.Points)

	require.NoError(t, s.ClearConstants(ctx))
	_, err = s.LoadConstants(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEvidence_SaveListDelete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	created := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

	item := model.EvidenceItem{
		ID:        "ev-1",
		Type:      model.EvidenceRentalAd,
		URL:       "https://rentals.example/1",
		FileIDs:   []string{"f-1"},
		CreatedAt: created,
	}
	file := model.EvidenceFile{
		ID:         "f-1",
		EvidenceID: "ev-1",
		Filename:   "ad.png",
		MIME:       "image/png",
		Size:       4,
		SHA256:     "abc",
		Data:       []byte{1, 2, 3, 4},
		CreatedAt:  created,
	}
	require.NoError(t, s.SaveEvidence(ctx, item, []model.EvidenceFile{file}))

	item.URL = ""
	item.FileIDs = append(item.FileIDs, "f-2")
	file2 := file
	file2.ID = "f-2"
	file2.Filename = "ad2.pdf"
	require.NoError(t, s.SaveEvidence(ctx, item, []model.EvidenceFile{file2}))

	got, err := s.EvidenceByType(ctx, model.EvidenceRentalAd)
	require.NoError(t, err)
	assert.Equal(t, "ev-1", got.ID)
	assert.Equal(t, "", got.URL)
	assert.Equal(t, []string{"f-1", "f-2"}, got.FileIDs)
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = s.EvidenceByType(ctx, model.EvidenceVehicleAd)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := s.ListEvidence(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	files, err := s.EvidenceFiles(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, []byte{1, 2, 3, 4}, files[0].Data)
	assert.Equal(t, "ad2.pdf", files[1].Filename)

	removed, err := s.DeleteEvidence(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = s.DeleteEvidence(ctx, "ev-1")
	assert.ErrorIs(t, err, ErrNotFound)

	items, err = s.ListEvidence(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEvidence_OneItemPerType(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.SaveEvidence(ctx, model.EvidenceItem{ID: "a", Type: model.EvidenceOther, CreatedAt: time.Now()}, nil))
	err := s.SaveEvidence(ctx, model.EvidenceItem{ID: "b", Type: model.EvidenceOther, CreatedAt: time.Now()}, nil)
	assert.Error(t, err)
}
