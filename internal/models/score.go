package models

type Engine string

const (
	EngineNormal    Engine = "normal"
	EngineDuplicate Engine = "duplicate"
	EngineFailed    Engine = "failed"
)

// ScoreResult is the ranked outcome for one resume.
type ScoreResult struct {
	Rank        int          `json:"rank"`
	Filename    string       `json:"filename"`
	FinalScore  int          `json:"final_score"`
	Engine      Engine       `json:"engine"`
	DuplicateOf string       `json:"duplicate_of,omitempty"`
	Details     ScoreDetails `json:"details"`
}

type ScoreDetails struct {
	AISummary             string              `json:"ai_summary"`
	OverallSkillScore     int                 `json:"overall_skill_score"`
	ExperienceScore       int                 `json:"experience_score"`
	ProjectScore          int                 `json:"project_score"`
	CalculatedYears       int                 `json:"calculated_years"`
	RecentYears           *int                `json:"recent_years"`
	CoreSkillMatches      []string            `json:"core_skill_matches"`
	SupportSkillMatches   []string            `json:"support_skill_matches"`
	MatchedSkills         []string            `json:"matched_skills"`
	MissingSkills         []string            `json:"missing_skills"`
	MissingOptionalSkills []string            `json:"missing_optional_skills"`
	Strengths             []string            `json:"strengths"`
	Risks                 []string            `json:"risks"`
	Recommendations       []string            `json:"recommendations"`
	ExperienceSegments    []ExperienceSegment `json:"experience_segments"`
	EmploymentGaps        []EmploymentGap     `json:"employment_gaps"`
	EducationHighlights   []string            `json:"education_highlights"`
	Certifications        []string            `json:"certifications"`
	SummaryHighlights     []string            `json:"summary_highlights"`
	HighlightedKeywords   []string            `json:"highlighted_keywords"`
	ScoreBreakdown        ScoreBreakdown      `json:"score_breakdown"`
	DeepInsights          DeepInsights        `json:"deep_insights"`
	SkillsCoverageRatio   float64             `json:"skills_coverage_ratio"`
	AIAssessment          AIAssessment        `json:"ai_assessment"`
}

type ExperienceSegment struct {
	Label         string  `json:"label"`
	Company       string  `json:"company"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	DurationYears float64 `json:"duration_years"`
}

type EmploymentGap struct {
	Start  string  `json:"start"`
	End    string  `json:"end"`
	Months float64 `json:"months"`
}

type ScoreBreakdown struct {
	CoreSkill           int          `json:"core_skill"`
	DomainAlignment     int          `json:"domain_alignment"`
	RoleAlignment       int          `json:"role_alignment"`
	ExperienceAlignment int          `json:"experience_alignment"`
	MustHaveRatio       float64      `json:"must_have_ratio"`
	NiceToHaveRatio     float64      `json:"nice_to_have_ratio"`
	BonusOrPenalty      float64      `json:"bonus_or_penalty"`
	Penalties           []string     `json:"penalties"`
	Adjustments         []Adjustment `json:"adjustments"`
}

// Adjustment records one deterministic change applied to the final score.
type Adjustment struct {
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

type DeepInsights struct {
	NotableSentences     []string `json:"notable_sentences"`
	RecommendedQuestions []string `json:"recommended_questions"`
}

type AIAssessment struct {
	FinalScore    int      `json:"final_score"`
	MatchedSkills []string `json:"matched_skills"`
	AISummary     string   `json:"ai_summary"`
}

const DefaultSummary = "No summary generated."

// NewScoreDetails returns a fully populated details block whose sub-scores default to score.
func NewScoreDetails(score int) ScoreDetails {
	return ScoreDetails{
		AISummary:             DefaultSummary,
		OverallSkillScore:     score,
		ExperienceScore:       score,
		ProjectScore:          score,
		CoreSkillMatches:      []string{},
		SupportSkillMatches:   []string{},
		MatchedSkills:         []string{},
		MissingSkills:         []string{},
		MissingOptionalSkills: []string{},
		Strengths:             []string{},
		Risks:                 []string{},
		Recommendations:       []string{},
		ExperienceSegments:    []ExperienceSegment{},
		EmploymentGaps:        []EmploymentGap{},
		EducationHighlights:   []string{},
		Certifications:        []string{},
		SummaryHighlights:     []string{},
		HighlightedKeywords:   []string{},
		ScoreBreakdown: ScoreBreakdown{
			CoreSkill:           score,
			DomainAlignment:     score,
			RoleAlignment:       score,
			ExperienceAlignment: score,
			Penalties:           []string{},
			Adjustments:         []Adjustment{},
		},
		DeepInsights: DeepInsights{
			NotableSentences:     []string{},
			RecommendedQuestions: []string{},
		},
		AIAssessment: AIAssessment{
			FinalScore:    score,
			MatchedSkills: []string{},
			AISummary:     DefaultSummary,
		},
	}
}

// Clone returns a deep copy so duplicates never share slices with their original.
func (d ScoreDetails) Clone() ScoreDetails {
	out := d
	if d.RecentYears != nil {
		v := *d.RecentYears
		out.RecentYears = &v
	}
	out.CoreSkillMatches = cloneStrings(d.CoreSkillMatches)
	out.SupportSkillMatches = cloneStrings(d.SupportSkillMatches)
	out.MatchedSkills = cloneStrings(d.MatchedSkills)
	out.MissingSkills = cloneStrings(d.MissingSkills)
	out.MissingOptionalSkills = cloneStrings(d.MissingOptionalSkills)
	out.Strengths = cloneStrings(d.Strengths)
	out.Risks = cloneStrings(d.Risks)
	out.Recommendations = cloneStrings(d.Recommendations)
	out.ExperienceSegments = append([]ExperienceSegment{}, d.ExperienceSegments...)
	out.EmploymentGaps = append([]EmploymentGap{}, d.EmploymentGaps...)
	out.EducationHighlights = cloneStrings(d.EducationHighlights)
	out.Certifications = cloneStrings(d.Certifications)
	out.SummaryHighlights = cloneStrings(d.SummaryHighlights)
	out.HighlightedKeywords = cloneStrings(d.HighlightedKeywords)
	out.ScoreBreakdown.Penalties = cloneStrings(d.ScoreBreakdown.Penalties)
	out.ScoreBreakdown.Adjustments = append([]Adjustment{}, d.ScoreBreakdown.Adjustments...)
	out.DeepInsights.NotableSentences = cloneStrings(d.DeepInsights.NotableSentences)
	out.DeepInsights.RecommendedQuestions = cloneStrings(d.DeepInsights.RecommendedQuestions)
	out.AIAssessment.MatchedSkills = cloneStrings(d.AIAssessment.MatchedSkills)
	return out
}

func cloneStrings(in []string) []string {
	return append([]string{}, in...)
}
