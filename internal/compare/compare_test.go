package compare

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/taxdeed-cli/internal/model"
	"github.com/sells-group/taxdeed-cli/internal/scorer"
)

func TestComparePropertiesScenario(t *testing.T) {
	p1, ext1 := propertyOne()
	p2, ext2 := propertyTwo()

	r, err := CompareProperties(p1, p2, ext1, ext2, defaultTestConfig())
	require.NoError(t, err)

	assert.Equal(t, WinnerProperty1, r.Category(scorer.Location).Winner)
	assert.Equal(t, WinnerProperty1, r.Category(scorer.Risk).Winner)
	assert.Equal(t, WinnerProperty1, r.Category(scorer.Financial).Winner)
	assert.Equal(t, WinnerProperty1, r.Category(scorer.Market).Winner)
	assert.Equal(t, WinnerTie, r.Category(scorer.Profit).Winner)

	assert.InDelta(t, 23, r.Category(scorer.Location).Differential, 0.001)
	assert.Equal(t, MagnitudeSignificant, r.Category(scorer.Location).Magnitude)
	assert.InDelta(t, 33, r.Category(scorer.Risk).Differential, 0.001)
	assert.Equal(t, MagnitudeDramatic, r.Category(scorer.Risk).Magnitude)
	assert.InDelta(t, 78.6, r.Category(scorer.Risk).PercentageDifferential, 0.001)

	assert.Equal(t, WinnerProperty1, r.OverallWinner)
	assert.InDelta(t, 26.3, r.TotalDifferential, 0.021)
	assert.Equal(t, scorer.Round(r.Property1.TotalScore-r.Property2.TotalScore, 2), r.TotalDifferential)
	assert.Equal(t, MagnitudeSignificant, r.OverallMagnitude)
	assert.Equal(t, CategorySummary{Property1Wins: 4, Property2Wins: 0, Ties: 1}, r.CategorySummary)

	assert.Equal(t, VerdictPreferProperty1, r.Recommendation.Verdict)
	assert.Equal(t, StrengthStrong, r.Recommendation.Strength)
	assert.Contains(t, r.Recommendation.Summary, "Property 1 (101 Main St)")
	require.Len(t, r.Recommendation.Reasons, 4)
	// Largest gap first.
	assert.True(t, strings.HasPrefix(r.Recommendation.Reasons[0], "Financial: leads by 35.0 points (dramatic)"))
	assert.Contains(t, r.Recommendation.Reasons[0], "tax debt is 3.8% of market value")
	assert.True(t, strings.HasPrefix(r.Recommendation.Reasons[1], "Risk: leads by 33.0 points (dramatic)"))
	assert.Contains(t, r.Recommendation.Reasons[1], "crime index 25 (low)")
	assert.True(t, strings.HasPrefix(r.Recommendation.Reasons[3], "Location:"))

	assert.Equal(t, WinnerProperty2, r.TradeOffs.Side)
	require.Len(t, r.TradeOffs.Items, 1)
	assert.Equal(t, scorer.Profit, r.TradeOffs.Items[0].Category)
	assert.Equal(t, OutcomeTied, r.TradeOffs.Items[0].Outcome)

	assert.Empty(t, r.Warnings)
	assert.Equal(t, 90, r.ComparisonConfidence)
}

func TestCompareMirror(t *testing.T) {
	p1, ext1 := propertyOne()
	p2, ext2 := propertyTwo()
	e := testEngine()

	ab, err := e.CompareProperties(p1, p2, ext1, ext2)
	require.NoError(t, err)
	ba, err := e.CompareProperties(p2, p1, ext2, ext1)
	require.NoError(t, err)

	assert.Equal(t, ab.OverallWinner.Flip(), ba.OverallWinner)
	assert.Equal(t, -ab.TotalDifferential, ba.TotalDifferential)
	assert.Equal(t, ab.OverallMagnitude, ba.OverallMagnitude)
	assert.Equal(t, ab.ComparisonConfidence, ba.ComparisonConfidence)
	assert.Equal(t, VerdictPreferProperty2, ba.Recommendation.Verdict)
	assert.Equal(t, ab.Recommendation.Strength, ba.Recommendation.Strength)
	assert.Equal(t, ab.Recommendation.Reasons, ba.Recommendation.Reasons)
	for _, c := range scorer.Categories {
		assert.Equal(t, ab.Category(c).Winner.Flip(), ba.Category(c).Winner, c.String())
		assert.Equal(t, -ab.Category(c).Differential, ba.Category(c).Differential, c.String())
		assert.Equal(t, ab.Category(c).Magnitude, ba.Category(c).Magnitude, c.String())
	}
}

func TestCompareSelf(t *testing.T) {
	p1, ext1 := propertyOne()
	r, err := CompareProperties(p1, p1, ext1, ext1, defaultTestConfig())
	require.NoError(t, err)

	for _, cc := range r.Categories {
		assert.Equal(t, WinnerTie, cc.Winner)
		assert.Zero(t, cc.Differential)
		assert.Zero(t, cc.PercentageDifferential)
		assert.Equal(t, MagnitudeNegligible, cc.Magnitude)
	}
	assert.Equal(t, WinnerTie, r.OverallWinner)
	assert.Zero(t, r.TotalDifferential)
	assert.Equal(t, VerdictComparable, r.Recommendation.Verdict)
	assert.Equal(t, StrengthWeak, r.Recommendation.Strength)
	assert.Empty(t, r.Recommendation.Reasons)
	assert.Empty(t, r.TradeOffs.Items)
	assert.True(t, r.HasWarning(WarningSelfComparison))
	assert.Contains(t, r.Recommendation.Summary, "compared with itself")
}

func TestCompareSameKeyDifferentSnapshot(t *testing.T) {
	p1, ext1 := propertyOne()
	later := *p1
	later.TotalDue = model.Some(9100.0)
	ext2 := *ext1
	ext2.WalkScore = ext1.TransitScore

	r, err := CompareProperties(p1, &later, ext1, &ext2, defaultTestConfig())
	require.NoError(t, err)
	assert.True(t, r.HasWarning(WarningSelfComparison))
	assert.Zero(t, r.Category(scorer.Location).Differential)
}

func TestCompareIncompatibleConfig(t *testing.T) {
	a := resultOf("A", 90, [scorer.NumCategories]float64{90, 90, 90, 90, 90})
	b := resultOf("B", 90, [scorer.NumCategories]float64{10, 10, 10, 10, 10})
	b.ConfigHash = "0000"

	r := testEngine().Compare(a, b)
	assert.True(t, r.HasWarning(WarningIncompatibleConfig))
	assert.Equal(t, WinnerTie, r.OverallWinner)
	assert.Zero(t, r.TotalDifferential)
	assert.Equal(t, VerdictComparable, r.Recommendation.Verdict)
	assert.Empty(t, r.ConfigHash)
	assert.Equal(t, 5, r.CategorySummary.Ties)
}

func TestCompareMissingSignals(t *testing.T) {
	p, ext := propertyOne()
	bare := *p
	bare.ParcelID = "12-345-679"

	r, err := CompareProperties(p, &bare, ext, nil, defaultTestConfig())
	require.NoError(t, err)

	assert.Less(t, r.Property2.ConfidenceLevel, r.Property1.ConfidenceLevel)
	for _, c := range []scorer.Category{scorer.Location, scorer.Risk} {
		cc := r.Category(c)
		if cc.Winner == WinnerProperty2 {
			assert.NotEqual(t, MagnitudeDramatic, cc.Magnitude, c.String())
		}
		assert.True(t, cc.Property2.UsedDefault, c.String())
	}
	assert.InDelta(t, 50, r.Category(scorer.Location).Property2.Score, 0.001)
	assert.InDelta(t, 40, r.Category(scorer.Risk).Property2.Score, 0.001)
}

func TestCompareOverallWinnerIgnoresMajority(t *testing.T) {
	// A wins the two heaviest categories by a lot and loses the other three.
	a := resultOf("A", 90, [scorer.NumCategories]float64{40, 100, 100, 40, 40})
	b := resultOf("B", 90, [scorer.NumCategories]float64{50, 50, 50, 50, 50})

	r := testEngine().Compare(a, b)
	assert.Equal(t, WinnerProperty1, r.OverallWinner)
	assert.InDelta(t, 20, r.TotalDifferential, 0.001)
	assert.Equal(t, MagnitudeSignificant, r.OverallMagnitude)
	assert.Equal(t, CategorySummary{Property1Wins: 2, Property2Wins: 3}, r.CategorySummary)

	assert.Equal(t, VerdictPreferProperty1, r.Recommendation.Verdict)
	assert.Equal(t, StrengthModerate, r.Recommendation.Strength)
	assert.True(t, r.HasWarning(WarningMinorityWins))
	require.Len(t, r.Recommendation.Reasons, 2)
	for _, reason := range r.Recommendation.Reasons {
		assert.True(t, strings.HasPrefix(reason, "Risk:") || strings.HasPrefix(reason, "Financial:"), reason)
	}

	assert.Equal(t, WinnerProperty2, r.TradeOffs.Side)
	require.Len(t, r.TradeOffs.Items, 3)
	for _, item := range r.TradeOffs.Items {
		assert.Equal(t, OutcomeWon, item.Outcome)
		assert.InDelta(t, 10, item.Differential, 0.001)
	}
}

func TestCompareLowConfidence(t *testing.T) {
	a := resultOf("A", 40, [scorer.NumCategories]float64{90, 90, 90, 90, 90})
	b := resultOf("B", 90, [scorer.NumCategories]float64{40, 40, 40, 40, 40})

	r := testEngine().Compare(a, b)
	assert.Equal(t, 40, r.ComparisonConfidence)
	assert.Equal(t, MagnitudeDramatic, r.OverallMagnitude)
	assert.Equal(t, StrengthModerate, r.Recommendation.Strength)
	assert.True(t, r.HasWarning(WarningLowConfidence))
	assert.False(t, r.HasWarning(WarningMinorityWins))
}

func TestCompareNegligibleWin(t *testing.T) {
	a := resultOf("A", 90, [scorer.NumCategories]float64{63, 63, 63, 63, 63})
	b := resultOf("B", 90, [scorer.NumCategories]float64{60, 60, 60, 60, 60})

	r := testEngine().Compare(a, b)
	assert.Equal(t, WinnerProperty1, r.OverallWinner)
	assert.Equal(t, MagnitudeNegligible, r.OverallMagnitude)
	assert.Equal(t, VerdictComparable, r.Recommendation.Verdict)
	assert.Equal(t, StrengthWeak, r.Recommendation.Strength)
	assert.Empty(t, r.Recommendation.Reasons)
	// Still a win on the totals, so the loser's trade-offs are listed.
	assert.Equal(t, WinnerProperty2, r.TradeOffs.Side)
	assert.Empty(t, r.TradeOffs.Items)
}

func TestCompareOverallTie(t *testing.T) {
	a := resultOf("A", 90, [scorer.NumCategories]float64{65, 60, 60, 60, 60})
	b := resultOf("B", 90, [scorer.NumCategories]float64{60, 60, 60, 60, 61})

	r := testEngine().Compare(a, b)
	assert.Equal(t, WinnerTie, r.OverallWinner)
	assert.Equal(t, WinnerProperty1, r.Category(scorer.Location).Winner)
	assert.Equal(t, VerdictComparable, r.Recommendation.Verdict)
	assert.Empty(t, r.Recommendation.Reasons)
	assert.Empty(t, r.TradeOffs.Side)
	assert.Empty(t, r.TradeOffs.Items)
	assert.False(t, r.HasWarning(WarningMinorityWins))
}

func TestComparePercentageEpsilon(t *testing.T) {
	a := resultOf("A", 90, [scorer.NumCategories]float64{10, 0, 0, 0, 0})
	b := resultOf("B", 90, [scorer.NumCategories]float64{0, 0, 0, 0, 0})

	r := testEngine().Compare(a, b)
	// 10 / max(0, 1) * 100
	assert.InDelta(t, 1000, r.Category(scorer.Location).PercentageDifferential, 0.001)
	assert.Zero(t, r.Category(scorer.Risk).PercentageDifferential)
}

func TestClassifyMagnitude(t *testing.T) {
	cc := defaultTestConfig().Comparison
	tests := []struct {
		diff float64
		want Magnitude
	}{
		{0, MagnitudeNegligible},
		{4.9, MagnitudeNegligible},
		{5, MagnitudeModerate},
		{14.9, MagnitudeModerate},
		{15, MagnitudeSignificant},
		{29.9, MagnitudeSignificant},
		{30, MagnitudeDramatic},
		{100, MagnitudeDramatic},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyMagnitude(tt.diff, cc), "diff %.1f", tt.diff)
	}
}

func TestCompareNoReasonFromLosingSide(t *testing.T) {
	p1, ext1 := propertyOne()
	p2, ext2 := propertyTwo()
	r, err := CompareProperties(p1, p2, ext1, ext2, defaultTestConfig())
	require.NoError(t, err)

	titles := map[string]bool{}
	for _, c := range scorer.Categories {
		titles[c.Title()] = true
	}
	for _, reason := range r.Recommendation.Reasons {
		title, _, ok := strings.Cut(reason, ":")
		require.True(t, ok)
		assert.True(t, titles[title], reason)
		assert.NotContains(t, reason, "22 Side Ave")
	}
}

func TestComparePropertiesValidationSide(t *testing.T) {
	p1, ext1 := propertyOne()
	p2, ext2 := propertyTwo()
	p2.County = ""

	_, err := CompareProperties(p1, p2, ext1, ext2, defaultTestConfig())
	require.Error(t, err)
	ve, ok := scorer.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "property2", ve.Side)
	assert.Equal(t, "county", ve.Field)
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.Comparison.MinorityWinMax = 9
	_, err := New(cfg)
	assert.Error(t, err)
}
