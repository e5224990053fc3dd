package services

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"alfredoptarigan/resume-ranker/internal/models"
)

const (
	RuleNoMustHaveCoverage   = "no_must_have_coverage"
	RuleNoRelevantExperience = "no_relevant_experience"
	RuleInsufficientEvidence = "insufficient_evidence"
	RuleDuplicate            = "duplicate_resume"
)

type GuardrailConfig struct {
	Dictionary          models.SkillDictionary
	InsufficientPhrases []string
	ClampCeiling        int
}

// ScoreGuardrail reconciles model output with deterministic keyword evidence.
// It holds no per-batch state and is safe for concurrent use.
type ScoreGuardrail struct {
	dictionary models.SkillDictionary
	phrases    []string
	ceiling    int
	patterns   sync.Map // term -> *regexp.Regexp
}

func NewScoreGuardrail(cfg GuardrailConfig) *ScoreGuardrail {
	phrases := make([]string, 0, len(cfg.InsufficientPhrases))
	for _, p := range cfg.InsufficientPhrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			phrases = append(phrases, p)
		}
	}
	ceiling := cfg.ClampCeiling
	if ceiling < 0 {
		ceiling = 0
	}
	return &ScoreGuardrail{
		dictionary: cfg.Dictionary,
		phrases:    phrases,
		ceiling:    ceiling,
	}
}

// Reconcile normalizes the raw payload, merges keyword hits into the model's
// skill lists and caps the score when evidence is missing. The returned score
// is always within [0,100].
func (g *ScoreGuardrail) Reconcile(raw map[string]interface{}, resumeText string, profile *models.JobProfile) (int, models.ScoreDetails) {
	score, d := NormalizePayload(raw)

	mustHits := g.scan(resumeText, profile.MustHaveSkills)
	niceHits := g.scan(resumeText, profile.NiceToHaveSkills)

	d.CoreSkillMatches = mergeSkills(d.CoreSkillMatches, mustHits)
	d.SupportSkillMatches = mergeSkills(d.SupportSkillMatches, niceHits)
	d.MatchedSkills = mergeSkills(d.MatchedSkills, mustHits, niceHits)
	d.MissingSkills = removeSkills(d.MissingSkills, mustHits)
	d.MissingOptionalSkills = removeSkills(d.MissingOptionalSkills, niceHits)

	coverage := CoverageRatio(len(mustHits), len(profile.MustHaveSkills))
	d.SkillsCoverageRatio = coverage

	clamp := func(rule, reason string) {
		before := score
		if score > g.ceiling {
			score = g.ceiling
		}
		d.ScoreBreakdown.Penalties = append(d.ScoreBreakdown.Penalties, reason)
		d.ScoreBreakdown.Adjustments = append(d.ScoreBreakdown.Adjustments, models.Adjustment{
			Rule:   rule,
			Reason: reason,
			Before: before,
			After:  score,
		})
		GuardrailClamps.WithLabelValues(rule).Inc()
	}

	if coverage == 0 {
		clamp(RuleNoMustHaveCoverage, fmt.Sprintf("None of the %d must-have skills were found in the resume text", len(profile.MustHaveSkills)))
	}
	if d.CalculatedYears <= 0 {
		clamp(RuleNoRelevantExperience, "No relevant years of experience could be established")
	}
	if phrase := g.insufficientPhrase(d.AISummary); phrase != "" {
		clamp(RuleInsufficientEvidence, fmt.Sprintf("Model summary reports %q", phrase))
	}

	return clampScore(score), d
}

// CoverageRatio is 1.0 when there are no must-have skills.
func CoverageRatio(hits, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(hits) / float64(total)
}

func (g *ScoreGuardrail) insufficientPhrase(summary string) string {
	lower := strings.ToLower(summary)
	for _, phrase := range g.phrases {
		if strings.Contains(lower, phrase) {
			return phrase
		}
	}
	return ""
}

// scan returns the skills, in profile order, that the text mentions by name or alias.
func (g *ScoreGuardrail) scan(text string, skills []string) []string {
	hits := []string{}
	if strings.TrimSpace(text) == "" {
		return hits
	}
	for _, skill := range skills {
		for _, term := range g.dictionary.Aliases(skill) {
			if g.mentions(text, term) {
				hits = append(hits, skill)
				break
			}
		}
	}
	return hits
}

// mentions matches term case-insensitively where it is not glued to other
// letters, allowing a plural "s".
func (g *ScoreGuardrail) mentions(text, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	if cached, ok := g.patterns.Load(term); ok {
		return cached.(*regexp.Regexp).MatchString(text)
	}
	re, err := regexp.Compile(`(?i)(?:^|[^\pL])` + regexp.QuoteMeta(term) + `s?(?:$|[^\pL])`)
	if err != nil {
		return strings.Contains(strings.ToLower(text), strings.ToLower(term))
	}
	g.patterns.Store(term, re)
	return re.MatchString(text)
}

// mergeSkills appends extra skills missing from base, ignoring case.
func mergeSkills(base []string, extra ...[]string) []string {
	out := append([]string{}, base...)
	seen := make(map[string]struct{}, len(out))
	for _, s := range out {
		seen[strings.ToLower(s)] = struct{}{}
	}
	for _, list := range extra {
		for _, s := range list {
			key := strings.ToLower(s)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func removeSkills(list, found []string) []string {
	if len(found) == 0 {
		return list
	}
	drop := make(map[string]struct{}, len(found))
	for _, s := range found {
		drop[strings.ToLower(s)] = struct{}{}
	}
	out := []string{}
	for _, s := range list {
		if _, ok := drop[strings.ToLower(s)]; !ok {
			out = append(out, s)
		}
	}
	return out
}
