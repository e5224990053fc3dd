package services

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	systemInstruction  = "You are a meticulous HR analyst. Respond only with valid JSON matching the requested schema."
	strictJSONReminder = "Reminder: respond strictly with the requested JSON object. Do not include any markdown, explanations, or surrounding text."

	focusListLimit = 12
)

// ScoringPromptInput holds everything the scoring prompt embeds.
type ScoringPromptInput struct {
	JobDescription string
	ResumeExcerpt  string
	RawPayload     []byte
	MustHave       []string
	NiceToHave     []string
	DomainTerms    []string
}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildScoringPrompt creates the prompt for scoring one resume against the job profile.
func (pb *PromptBuilder) BuildScoringPrompt(in ScoringPromptInput) string {
	payloadSection := ""
	if len(in.RawPayload) > 0 {
		payloadSection = fmt.Sprintf(`
Text extraction failed for this resume. The original document is attached below as base64.
Decode it and read it directly to capture the candidate's experience. If it is also unreadable,
treat the candidate as having insufficient data and say so in ai_summary.

BASE64 DOCUMENT PAYLOAD:
---
%s
---
`, base64.StdEncoding.EncodeToString(in.RawPayload))
	}

	return fmt.Sprintf(`You are an expert technical recruiter. Read the job description and resume text carefully (ignore layout artefacts).

Objectives (in priority order):
1. Determine true relevant experience by scanning roles, dates, and responsibilities. Convert timelines into whole years (round to nearest integer).
2. Identify skills and achievements that align with the job requirements, even when phrased differently.
3. Summarise the candidate's fit and highlight decisive strengths, risks, and follow-up questions.

Must-have focus areas: %s
Supporting focus areas: %s
Key domain terms: %s

Respond ONLY with a JSON object matching this schema:
{
  "final_score": <integer 0-100 representing overall fit>,
  "details": {
    "ai_summary": <string 2-3 sentence synopsis>,
    "overall_skill_score": <integer 0-100>,
    "experience_score": <integer 0-100>,
    "project_score": <integer 0-100>,
    "calculated_years": <number of total relevant years>,
    "recent_years": <number of relevant years in the last 5 years>,
    "core_skill_matches": [<matched must-have skills>],
    "support_skill_matches": [<matched supporting skills>],
    "matched_skills": [<all matched skills>],
    "missing_skills": [<critical missing skills>],
    "missing_optional_skills": [<optional skills missing>],
    "strengths": [<candidate strengths>],
    "risks": [<concerns or red flags>],
    "recommendations": [<follow-up interview questions or notes>],
    "experience_segments": [{"label": <role>, "company": <employer>, "start": <start date>, "end": <end date or "Present">, "duration_years": <float>}],
    "employment_gaps": [{"start": <gap start>, "end": <gap end>, "months": <float>}],
    "education_highlights": [<key education facts>],
    "certifications": [<certifications>],
    "summary_highlights": [<headline profile bullets>],
    "highlighted_keywords": [<notable keywords>],
    "score_breakdown": {
      "core_skill": <integer 0-100>,
      "domain_alignment": <integer 0-100>,
      "role_alignment": <integer 0-100>,
      "experience_alignment": <integer 0-100>,
      "must_have_ratio": <float 0-1>,
      "nice_to_have_ratio": <float 0-1>,
      "bonus_or_penalty": <float>,
      "penalties": [<strings describing penalties>]
    },
    "deep_insights": {
      "notable_sentences": [<accomplishment snippets>],
      "recommended_questions": [<interview prompts>]
    },
    "skills_coverage_ratio": <float 0-1>,
    "ai_assessment": {"final_score": <integer 0-100>, "matched_skills": [<skills>], "ai_summary": <string>}
  }
}

Rules:
- Output must be valid JSON (double quotes, no trailing commas).
- Always populate every key: use empty arrays for missing lists, null for unknown numerics, and 0 when you cannot estimate a score.
- Keep reasoning concise; avoid repeating the job description verbatim.

JOB DESCRIPTION:
---
%s
---

RESUME TEXT:
---
%s
---
%s`,
		formatFocusList(in.MustHave, "None specified"),
		formatFocusList(in.NiceToHave, "None specified"),
		formatFocusList(in.DomainTerms, "None provided"),
		strings.TrimSpace(in.JobDescription),
		strings.TrimSpace(in.ResumeExcerpt),
		payloadSection,
	)
}

func formatFocusList(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	if len(items) > focusListLimit {
		items = items[:focusListLimit]
	}
	return strings.Join(items, ", ")
}
