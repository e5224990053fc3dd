package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"alfredoptarigan/resume-ranker/internal/models"
)

// NormalizePayload maps a raw model payload onto a fully populated details block.
// Missing or mistyped fields fall back to defaults; sub-scores default to the final score.
func NormalizePayload(raw map[string]interface{}) (int, models.ScoreDetails) {
	finalScore := clampScore(coerceInt(raw["final_score"], 0))
	details, _ := raw["details"].(map[string]interface{})

	d := models.NewScoreDetails(finalScore)
	if summary := coerceString(details["ai_summary"]); summary != "" {
		d.AISummary = summary
	}
	d.OverallSkillScore = clampScore(coerceInt(details["overall_skill_score"], finalScore))
	d.ExperienceScore = clampScore(coerceInt(details["experience_score"], finalScore))
	d.ProjectScore = clampScore(coerceInt(details["project_score"], finalScore))
	d.CalculatedYears = coerceInt(details["calculated_years"], 0)
	if years, ok := intValue(details["recent_years"]); ok {
		d.RecentYears = &years
	}

	d.CoreSkillMatches = coerceStringList(details["core_skill_matches"])
	d.SupportSkillMatches = coerceStringList(details["support_skill_matches"])
	d.MatchedSkills = coerceStringList(details["matched_skills"])
	d.MissingSkills = coerceStringList(details["missing_skills"])
	d.MissingOptionalSkills = coerceStringList(details["missing_optional_skills"])
	d.Strengths = coerceStringList(details["strengths"])
	d.Risks = coerceStringList(details["risks"])
	d.Recommendations = coerceStringList(details["recommendations"])
	d.EducationHighlights = coerceStringList(details["education_highlights"])
	d.Certifications = coerceStringList(details["certifications"])
	d.SummaryHighlights = coerceStringList(details["summary_highlights"])
	d.HighlightedKeywords = coerceStringList(details["highlighted_keywords"])
	d.ExperienceSegments = decodeSegments(details["experience_segments"])
	d.EmploymentGaps = decodeGaps(details["employment_gaps"])
	d.SkillsCoverageRatio = clampRatio(coerceFloat(details["skills_coverage_ratio"], 0))

	if breakdown, ok := details["score_breakdown"].(map[string]interface{}); ok {
		d.ScoreBreakdown.CoreSkill = clampScore(coerceInt(breakdown["core_skill"], finalScore))
		d.ScoreBreakdown.DomainAlignment = clampScore(coerceInt(breakdown["domain_alignment"], finalScore))
		d.ScoreBreakdown.RoleAlignment = clampScore(coerceInt(breakdown["role_alignment"], finalScore))
		d.ScoreBreakdown.ExperienceAlignment = clampScore(coerceInt(breakdown["experience_alignment"], finalScore))
		d.ScoreBreakdown.MustHaveRatio = clampRatio(coerceFloat(breakdown["must_have_ratio"], 0))
		d.ScoreBreakdown.NiceToHaveRatio = clampRatio(coerceFloat(breakdown["nice_to_have_ratio"], 0))
		d.ScoreBreakdown.BonusOrPenalty = coerceFloat(breakdown["bonus_or_penalty"], 0)
		d.ScoreBreakdown.Penalties = coerceStringList(breakdown["penalties"])
	}

	if insights, ok := details["deep_insights"].(map[string]interface{}); ok {
		d.DeepInsights.NotableSentences = coerceStringList(insights["notable_sentences"])
		d.DeepInsights.RecommendedQuestions = coerceStringList(insights["recommended_questions"])
	}

	d.AIAssessment.AISummary = d.AISummary
	if assessment, ok := details["ai_assessment"].(map[string]interface{}); ok {
		d.AIAssessment.FinalScore = clampScore(coerceInt(assessment["final_score"], finalScore))
		d.AIAssessment.MatchedSkills = coerceStringList(assessment["matched_skills"])
		if summary := coerceString(assessment["ai_summary"]); summary != "" {
			d.AIAssessment.AISummary = summary
		}
	}

	return finalScore, d
}

// intValue rounds half away from zero. ok is false for values that are not numeric.
func intValue(v interface{}) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

func coerceInt(v interface{}, def int) int {
	if n, ok := intValue(v); ok {
		return n
	}
	return def
}

func coerceFloat(v interface{}, def float64) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return def
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func coerceString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// coerceStringList keeps trimmed non-empty strings; a bare string becomes a one item list.
func coerceStringList(v interface{}) []string {
	out := []string{}
	switch items := v.(type) {
	case string:
		if s := strings.TrimSpace(items); s != "" {
			out = append(out, s)
		}
	case []interface{}:
		for _, item := range items {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	case []string:
		for _, s := range items {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func decodeSegments(v interface{}) []models.ExperienceSegment {
	out := []models.ExperienceSegment{}
	items, _ := v.([]interface{})
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		var seg models.ExperienceSegment
		decodeWeak(m, &seg)
		seg.Label = strings.TrimSpace(seg.Label)
		seg.Company = strings.TrimSpace(seg.Company)
		seg.Start = strings.TrimSpace(seg.Start)
		seg.End = strings.TrimSpace(seg.End)
		out = append(out, seg)
	}
	return out
}

func decodeGaps(v interface{}) []models.EmploymentGap {
	out := []models.EmploymentGap{}
	items, _ := v.([]interface{})
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		var gap models.EmploymentGap
		decodeWeak(m, &gap)
		gap.Start = strings.TrimSpace(gap.Start)
		gap.End = strings.TrimSpace(gap.End)
		out = append(out, gap)
	}
	return out
}

// decodeWeak fills result field by field. Fields that cannot be converted keep
// their zero value.
func decodeWeak(input map[string]interface{}, result interface{}) {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return
	}
	_ = decoder.Decode(input)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampRatio(ratio float64) float64 {
	return math.Max(0, math.Min(1, ratio))
}
