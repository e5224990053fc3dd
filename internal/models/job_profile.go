package models

// JobProfile is derived once per request and shared read-only by every resume evaluation.
type JobProfile struct {
	MustHaveSkills     []string `json:"must_have_skills"`
	NiceToHaveSkills   []string `json:"nice_to_have_skills"`
	DomainKeywords     []string `json:"domain_keywords"`
	RoleTitles         []string `json:"role_titles"`
	MinYearsExperience *float64 `json:"min_years_experience"`

	// Description is the cleaned job description text the profile was built from.
	Description string `json:"-"`
}

// SkillDictionary maps an official skill name to the aliases it may appear under.
type SkillDictionary map[string][]string

// Aliases returns the official name followed by its aliases.
func (d SkillDictionary) Aliases(skill string) []string {
	terms := []string{skill}
	for _, alias := range d[skill] {
		if alias != skill {
			terms = append(terms, alias)
		}
	}
	return terms
}
