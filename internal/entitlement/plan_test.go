// AngelaMos | 2026
// plan_test.go

package entitlement

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanForUnknownFallsBackToFree(t *testing.T) {
	details := PlanFor(Plan("platinum"))

	assert.Equal(t, "Free Trial", details.Name)
	assert.Equal(t, PeriodMonthly, details.Period)
	assert.Equal(t, Limit(1), details.MaxReleasesPerPeriod)
}

func TestPlanPeriods(t *testing.T) {
	assert.Equal(t, PeriodMonthly, PlanFor(PlanFree).Period)
	assert.Equal(t, PeriodYearly, PlanFor(PlanArtist).Period)
	assert.Equal(t, PeriodYearly, PlanFor(PlanArtistManager).Period)
	assert.Equal(t, PeriodYearly, PlanFor(PlanLabel).Period)
}

func TestPlanFileSizes(t *testing.T) {
	assert.Equal(t, int64(50*megabyte), PlanFor(PlanFree).MaxFileSize)
	assert.Equal(t, int64(200*megabyte), PlanFor(PlanArtist).MaxFileSize)
	assert.Equal(t, int64(500*megabyte), PlanFor(PlanArtistManager).MaxFileSize)
	assert.Equal(t, int64(2*gigabyte), PlanFor(PlanLabel).MaxFileSize)
}

func TestPaidPlansUnlimitedReleases(t *testing.T) {
	for _, plan := range []Plan{PlanArtist, PlanArtistManager, PlanLabel} {
		details := PlanFor(plan)
		assert.True(t, details.MaxReleasesPerPeriod.IsUnlimited(), "%s", plan)
		assert.True(t, details.MaxTracksPerPeriod.IsUnlimited(), "%s", plan)
	}
}

func TestUpgradeOptionsLabelHasNone(t *testing.T) {
	for _, feature := range []Feature{
		FeatureArtists,
		FeatureReleases,
		FeatureTracks,
		FeatureFileSize,
	} {
		assert.Empty(t, UpgradeOptions(RoleLabel, feature))
	}
}

func TestUpgradeOptionsArtistManagerSeesOnlyLabel(t *testing.T) {
	options := UpgradeOptions(RoleArtistManager, FeatureArtists)

	require.Len(t, options, 1)
	assert.Equal(t, "Label Plan", options[0].Plan)
	assert.Equal(t, 6000, options[0].Price)
	assert.Equal(t, "per year", options[0].Period)
}

func TestUpgradeOptionsArtist(t *testing.T) {
	options := UpgradeOptions(RoleArtist, FeatureFileSize)

	require.Len(t, options, 2)
	assert.Equal(t, "Artist Manager Plan", options[0].Plan)
	assert.Equal(t, "500MB", options[0].Limit)
	assert.Equal(t, "Label Plan", options[1].Plan)
	assert.Equal(t, "2GB", options[1].Limit)
}

func TestLimitMarshalJSON(t *testing.T) {
	data, err := json.Marshal(Unlimited)
	require.NoError(t, err)
	assert.Equal(t, `"Unlimited"`, string(data))

	data, err = json.Marshal(Limit(10))
	require.NoError(t, err)
	assert.Equal(t, `10`, string(data))
}

func TestLimitAllows(t *testing.T) {
	assert.True(t, Unlimited.Allows(10_000))
	assert.True(t, Limit(1).Allows(0))
	assert.False(t, Limit(1).Allows(1))
	assert.False(t, Limit(0).Allows(0))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "50MB", FormatFileSize(50*megabyte))
	assert.Equal(t, "2GB", FormatFileSize(2*gigabyte))
}
