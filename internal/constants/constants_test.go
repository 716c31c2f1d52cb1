package constants

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movingout-dev/movingout/internal/model"
)

func TestRoundTrip(t *testing.T) {
	c := Default()
	path := filepath.Join(t.TempDir(), "constants.yaml")
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, c.ConstantsVersion, got.ConstantsVersion)
	assert.Equal(t, c.Income.DefaultMode, got.Income.DefaultMode)
	assert.InDelta(t, c.Deductions.CPP.Value, got.Deductions.CPP.Value, 1e-9)
	assert.InDelta(t, c.Thresholds.BufferWarning.Value, got.Thresholds.BufferWarning.Value, 1e-9)
	assert.Equal(t, c.Transportation.LoanTable.Points, got.Transportation.LoanTable.Points)
	assert.Equal(t, c.Food.DefaultItems, got.Food.DefaultItems)
	assert.Equal(t, c.EconomicSnapshot.MinimumWage.SourceURL, got.EconomicSnapshot.MinimumWage.SourceURL)
}

func TestLoadJSON(t *testing.T) {
	doc := `{
  "constants_version": "test-1",
  "income": {"default_mode": "hourly_estimate"},
  "deductions": {"income_tax_rate": {"value": 0.1}},
  "transportation": {
    "weeks_per_month": {"value": 4.33},
    "loan_payment_table": {"baseline_term_months": 60, "baseline_apr_percent": 6, "points": [{"principal": 1000, "monthly_payment": 19.33}]}
  },
  "food": {"weeks_per_month": {"value": 4.33}}
}`
	path := filepath.Join(t.TempDir(), "constants.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.IncomeHourlyEstimate, got.Income.DefaultMode)
	assert.InDelta(t, 0.1, got.Deductions.IncomeTax.Value, 1e-9)
	require.Len(t, got.Transportation.LoanTable.Points, 1)
	assert.InDelta(t, 19.33, got.Transportation.LoanTable.Points[0].MonthlyPayment, 1e-9)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_MissingSections(t *testing.T) {
	_, err := Parse([]byte("currency: CAD\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constants_version is required")
	assert.Contains(t, err.Error(), "income.default_mode")
	assert.Contains(t, err.Error(), "transportation.weeks_per_month")
	assert.Contains(t, err.Error(), "food.weeks_per_month")
}

func TestValidate_DegenerateLoanTableIsAllowed(t *testing.T) {
	c := Default()
	c.Transportation.LoanTable.Points = nil
	c.Transportation.DefaultAPRPercent.Value = 0
	assert.NoError(t, c.Validate())
}

func TestDefaults(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.InDelta(t, 0.1961, c.Deductions.Total(), 1e-9)
	assert.Equal(t, []float64{0.12, 0.0595, 0.0166, 0}, c.Deductions.Weights())
	assert.InDelta(t, 0.18, c.Transportation.OperatingCostPerKM.For(model.TransportTruck), 1e-9)
	assert.InDelta(t, 0.12, c.Transportation.OperatingCostPerKM.For(model.TransportCar), 1e-9)
}

func TestClone_IsIndependent(t *testing.T) {
	c := Default()
	cp := c.Clone()
	cp.Transportation.LoanTable.Points[0].MonthlyPayment = 1
	cp.Food.DefaultItems[0] = "Changed"
	cp.EconomicSnapshot.MinimumWage.Value = 99

	assert.InDelta(t, 101.36, c.Transportation.LoanTable.Points[0].MonthlyPayment, 1e-9)
	assert.Equal(t, "Protein", c.Food.DefaultItems[0])
	assert.InDelta(t, 15.0, c.EconomicSnapshot.MinimumWage.Value, 1e-9)
}
