package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ranker/internal/models"
)

func newTestGuardrail() *ScoreGuardrail {
	return NewScoreGuardrail(GuardrailConfig{
		Dictionary: models.SkillDictionary{
			"Python":     {"Python", "py"},
			"Kubernetes": {"Kubernetes", "K8s"},
		},
		InsufficientPhrases: []string{"insufficient data", "unable to assess"},
		ClampCeiling:        5,
	})
}

func TestReconcileMergesKeywordHitsWithoutClamp(t *testing.T) {
	profile := &models.JobProfile{MustHaveSkills: []string{"Python", "API design"}}
	raw := map[string]interface{}{
		"final_score": 12.0,
		"details": map[string]interface{}{
			"calculated_years": 4.0,
			"missing_skills":   []interface{}{"api design", "Terraform"},
		},
	}

	score, d := newTestGuardrail().Reconcile(raw, "Senior Python engineer. Led API design reviews.", profile)

	assert.Equal(t, 12, score)
	assert.Equal(t, []string{"Python", "API design"}, d.CoreSkillMatches)
	assert.Equal(t, []string{"Python", "API design"}, d.MatchedSkills)
	assert.Equal(t, []string{"Terraform"}, d.MissingSkills)
	assert.Equal(t, 1.0, d.SkillsCoverageRatio)
	assert.Empty(t, d.ScoreBreakdown.Adjustments)
}

func TestReconcileClampsWithoutMustHaveCoverage(t *testing.T) {
	profile := &models.JobProfile{MustHaveSkills: []string{"Python", "API design"}}
	raw := map[string]interface{}{
		"final_score": 80.0,
		"details": map[string]interface{}{
			"calculated_years":   6.0,
			"core_skill_matches": []interface{}{"Leadership"},
		},
	}

	score, d := newTestGuardrail().Reconcile(raw, "Marketing lead with brand strategy background", profile)

	assert.LessOrEqual(t, score, 5)
	assert.Equal(t, 0.0, d.SkillsCoverageRatio)
	assert.Equal(t, []string{"Leadership"}, d.CoreSkillMatches)
	require.Len(t, d.ScoreBreakdown.Adjustments, 1)
	assert.Equal(t, RuleNoMustHaveCoverage, d.ScoreBreakdown.Adjustments[0].Rule)
	assert.Equal(t, 80, d.ScoreBreakdown.Adjustments[0].Before)
	assert.Equal(t, 5, d.ScoreBreakdown.Adjustments[0].After)
	assert.Len(t, d.ScoreBreakdown.Penalties, 1)
}

func TestReconcileAppliesEachClampInOrder(t *testing.T) {
	profile := &models.JobProfile{MustHaveSkills: []string{"Python"}}
	raw := map[string]interface{}{
		"final_score": 90.0,
		"details": map[string]interface{}{
			"ai_summary":       "Unable to assess the candidate.",
			"calculated_years": 0.0,
		},
	}

	score, d := newTestGuardrail().Reconcile(raw, "", profile)

	assert.Equal(t, 5, score)
	require.Len(t, d.ScoreBreakdown.Adjustments, 3)
	assert.Equal(t, RuleNoMustHaveCoverage, d.ScoreBreakdown.Adjustments[0].Rule)
	assert.Equal(t, RuleNoRelevantExperience, d.ScoreBreakdown.Adjustments[1].Rule)
	assert.Equal(t, RuleInsufficientEvidence, d.ScoreBreakdown.Adjustments[2].Rule)
	assert.Equal(t, 5, d.ScoreBreakdown.Adjustments[2].Before)
}

func TestReconcileNeverRaisesScore(t *testing.T) {
	profile := &models.JobProfile{MustHaveSkills: []string{"Python"}}
	raw := map[string]interface{}{"final_score": 2.0}

	score, _ := newTestGuardrail().Reconcile(raw, "python", profile)

	assert.Equal(t, 2, score)
}

func TestReconcileNoMustHavesMeansFullCoverage(t *testing.T) {
	raw := map[string]interface{}{
		"final_score": 70.0,
		"details":     map[string]interface{}{"calculated_years": 3.0},
	}

	score, d := newTestGuardrail().Reconcile(raw, "anything", &models.JobProfile{})

	assert.Equal(t, 70, score)
	assert.Equal(t, 1.0, d.SkillsCoverageRatio)
}

func TestReconcileScoreAlwaysInBounds(t *testing.T) {
	profile := &models.JobProfile{}
	for _, raw := range []interface{}{-50.0, 250.0, "1e9", nil, "abc"} {
		score, _ := newTestGuardrail().Reconcile(map[string]interface{}{
			"final_score": raw,
			"details":     map[string]interface{}{"calculated_years": 2.0},
		}, "", profile)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestScanUsesAliasesAndBoundaries(t *testing.T) {
	g := newTestGuardrail()
	skills := []string{"Python", "Kubernetes", "REST"}

	assert.Equal(t, []string{"Kubernetes"}, g.scan("Deployed to K8s clusters", skills))
	assert.Equal(t, []string{"Python"}, g.scan("Wrote scripts in py and bash", skills))
	assert.Empty(t, g.scan("A happy restaurant interest", skills))
	assert.Equal(t, []string{"REST"}, g.scan("Designed RESTs, see REST.", skills))
}
