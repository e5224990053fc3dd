package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"alfredoptarigan/resume-ranker/internal/models"
)

const (
	fallbackSkillCount = 5
	maxDomainKeywords  = 15
	maxRoleTitleWords  = 6
	maxHeadingWords    = 8
)

var (
	mustHaveHints = []string{"must", "mandatory", "require", "should have", "need to have", "minimum"}
	niceHints     = []string{"preferred", "nice to have", "plus", "bonus", "advantage", "good to have"}
	roleKeywords  = map[string]bool{
		"manager": true, "lead": true, "head": true, "director": true,
		"specialist": true, "consultant": true, "program": true, "project": true,
	}

	domainStopwords = map[string]bool{
		"the": true, "and": true, "with": true, "for": true, "per": true, "across": true,
		"using": true, "ability": true, "experience": true, "including": true,
		"responsible": true, "responsibilities": true, "skills": true, "skill": true,
		"development": true, "initiative": true, "community": true, "requirements": true,
		"manager": true, "management": true, "team": true, "teams": true,
		"stakeholder": true, "stakeholders": true, "lead": true, "leading": true,
		"deliver": true, "delivery": true, "ensure": true, "ensuring": true,
		"work": true, "working": true, "drive": true, "driving": true,
		"support": true, "supporting": true, "will": true, "have": true, "this": true,
		"that": true, "from": true, "your": true, "within": true, "years": true,
		"must": true, "should": true, "preferred": true, "strong": true, "good": true,
		"plus": true, "bonus": true, "knowledge": true, "understanding": true,
	}

	wordPattern     = regexp.MustCompile(`[\pL][\pL'\-]*[\pL]`)
	minYearsPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:\+|plus)?\s*(?:years?|yrs?)\s+(?:of\s+)?experience`)
	fragmentSplit   = regexp.MustCompile(`[,;:()|/•]|\s[-–]\s`)
)

// jdSections lists the section headings recognised in a job description, in
// match order. "preferred" comes before "qualifications" so that a
// "Preferred Qualifications" heading lands in the preferred bucket.
var jdSections = []struct {
	name     string
	keywords []string
}{
	{"about", []string{"about", "overview", "summary", "who we are", "company"}},
	{"responsibilities", []string{"responsibilities", "key responsibilities", "what you will do", "what you'll do", "duties", "the role", "role"}},
	{"preferred", []string{"preferred", "nice to have", "good to have", "bonus"}},
	{"requirements", []string{"requirements", "must have", "what we're looking for", "what we are looking for"}},
	{"qualifications", []string{"qualifications", "education"}},
	{"skills", []string{"skills", "technical skills", "tech stack"}},
	{"benefits", []string{"benefits", "perks", "what we offer", "compensation"}},
}

type skillAlias struct {
	skill   string
	pattern *regexp.Regexp
}

// SkillExtractor turns job description text into a JobProfile using an
// injected skill dictionary.
type SkillExtractor struct {
	dictionary models.SkillDictionary
	aliases    []skillAlias
}

func NewSkillExtractor(dictionary models.SkillDictionary) *SkillExtractor {
	names := make([]string, 0, len(dictionary))
	for name := range dictionary {
		names = append(names, name)
	}
	sort.Strings(names)

	var aliases []skillAlias
	for _, name := range names {
		for _, term := range dictionary.Aliases(name) {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			aliases = append(aliases, skillAlias{
				skill:   name,
				pattern: regexp.MustCompile(`(?i)(?:^|[^\pL\pN])` + regexp.QuoteMeta(term) + `(?:$|[^\pL\pN])`),
			})
		}
	}

	return &SkillExtractor{dictionary: dictionary, aliases: aliases}
}

// Dictionary returns the dictionary the extractor was built with.
func (s *SkillExtractor) Dictionary() models.SkillDictionary {
	return s.dictionary
}

// Match returns the official names of every skill mentioned in text, sorted.
func (s *SkillExtractor) Match(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	found := make(map[string]bool)
	for _, alias := range s.aliases {
		if found[alias.skill] {
			continue
		}
		if alias.pattern.MatchString(text) {
			found[alias.skill] = true
		}
	}
	return sortedKeys(found)
}

func (s *SkillExtractor) Summarize(text string) models.JobProfile {
	profile := models.JobProfile{
		MustHaveSkills:   []string{},
		NiceToHaveSkills: []string{},
		DomainKeywords:   []string{},
		RoleTitles:       []string{},
		Description:      text,
	}
	if strings.TrimSpace(text) == "" {
		return profile
	}

	must := make(map[string]bool)
	nice := make(map[string]bool)
	general := make(map[string]bool)

	for _, line := range nonEmptyLines(text) {
		mentions := s.Match(line)
		if len(mentions) == 0 {
			continue
		}
		lowered := strings.ToLower(line)
		target := general
		switch {
		case containsAny(lowered, mustHaveHints):
			target = must
		case containsAny(lowered, niceHints):
			target = nice
		}
		for _, skill := range mentions {
			target[skill] = true
		}
	}

	if len(must) == 0 && len(general) > 0 {
		for _, skill := range firstN(sortedKeys(general), fallbackSkillCount) {
			must[skill] = true
			delete(general, skill)
		}
	}
	if len(nice) == 0 && len(general) > 0 {
		for _, skill := range firstN(sortedKeys(general), fallbackSkillCount) {
			nice[skill] = true
		}
	}

	profile.MustHaveSkills = sortedKeys(must)
	profile.NiceToHaveSkills = sortedKeys(nice)

	selected := make([]string, 0, len(must)+len(nice))
	selected = append(selected, profile.MustHaveSkills...)
	selected = append(selected, profile.NiceToHaveSkills...)
	profile.DomainKeywords = domainKeywords(text, selected)
	profile.RoleTitles = roleTitles(text, selected)
	profile.MinYearsExperience = minYearsExperience(text)

	return profile
}

// SplitSections breaks a job description into its headed sections. Text
// before the first recognised heading is dropped.
func SplitSections(text string) map[string]string {
	sections := make(map[string]string)
	current := ""
	var buf []string

	flush := func() {
		if current == "" {
			return
		}
		body := strings.TrimSpace(strings.Join(buf, "\n"))
		if body == "" {
			return
		}
		if existing, ok := sections[current]; ok {
			body = existing + "\n" + body
		}
		sections[current] = body
	}

	for _, line := range strings.Split(text, "\n") {
		if name, rest, ok := matchHeading(line); ok {
			flush()
			current = name
			buf = buf[:0]
			if rest != "" {
				buf = append(buf, rest)
			}
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return sections
}

func matchHeading(line string) (name, rest string, ok bool) {
	trimmed := strings.TrimLeft(strings.TrimSpace(line), "#*-•> ")
	if trimmed == "" {
		return "", "", false
	}
	lowered := strings.ToLower(trimmed)

	for _, section := range jdSections {
		for _, keyword := range section.keywords {
			if !strings.HasPrefix(lowered, keyword) {
				continue
			}
			tail := trimmed[len(keyword):]
			if continuesWord(tail) {
				continue
			}
			head, body, hasColon := strings.Cut(trimmed, ":")
			if len(strings.Fields(head)) > maxHeadingWords {
				continue
			}
			if hasColon {
				return section.name, strings.TrimSpace(body), true
			}
			if len(strings.Fields(trimmed)) > maxHeadingWords {
				continue
			}
			return section.name, "", true
		}
	}
	return "", "", false
}

func continuesWord(tail string) bool {
	for _, r := range tail {
		return unicode.IsLetter(r) || r == '-'
	}
	return false
}

// domainKeywords keeps up to maxDomainKeywords content words. Capitalised or
// repeated words go first; ties keep first-appearance order.
func domainKeywords(text string, skills []string) []string {
	skillSet := make(map[string]bool, len(skills))
	for _, skill := range skills {
		skillSet[strings.ToLower(skill)] = true
	}

	type candidate struct {
		word   string
		strong bool
	}

	counts := make(map[string]int)
	index := make(map[string]int)
	var candidates []candidate

	for _, word := range wordPattern.FindAllString(text, -1) {
		lower := strings.ToLower(word)
		if len([]rune(lower)) < 4 || domainStopwords[lower] || skillSet[lower] {
			continue
		}
		counts[lower]++
		if i, seen := index[lower]; seen {
			if counts[lower] > 1 {
				candidates[i].strong = true
			}
			continue
		}
		index[lower] = len(candidates)
		candidates = append(candidates, candidate{
			word:   word,
			strong: unicode.IsUpper([]rune(word)[0]),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].strong && !candidates[j].strong
	})

	out := make([]string, 0, maxDomainKeywords)
	for _, c := range candidates {
		if len(out) == maxDomainKeywords {
			break
		}
		out = append(out, c.word)
	}
	return out
}

func roleTitles(text string, skills []string) []string {
	titles := make(map[string]bool)
	for _, line := range nonEmptyLines(text) {
		for _, fragment := range fragmentSplit.Split(line, -1) {
			fragment = strings.Trim(strings.TrimSpace(fragment), ".-*• ")
			words := strings.Fields(fragment)
			if len(words) == 0 || len(words) > maxRoleTitleWords {
				continue
			}
			if hasRoleKeyword(words) {
				titles[fragment] = true
			}
		}
	}

	if len(titles) == 0 {
		for _, skill := range skills {
			lower := strings.ToLower(skill)
			for keyword := range roleKeywords {
				if strings.Contains(lower, keyword) {
					titles[skill] = true
					break
				}
			}
		}
	}
	return sortedKeys(titles)
}

func hasRoleKeyword(words []string) bool {
	for _, word := range words {
		if roleKeywords[strings.ToLower(strings.Trim(word, ".,;:!?'\""))] {
			return true
		}
	}
	return false
}

func minYearsExperience(text string) *float64 {
	var best *float64
	for _, match := range minYearsPattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if best == nil || value > *best {
			v := value
			best = &v
		}
	}
	return best
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func containsAny(text string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(text, hint) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
