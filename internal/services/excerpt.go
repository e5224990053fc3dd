package services

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Heading keywords whose sections go first in the excerpt.
var sectionPriority = []string{
	"experience",
	"project",
	"employment",
	"work history",
	"technical",
	"technology",
	"skills",
	"summary",
	"objective",
	"profile",
}

// ExcerptBuilder bounds the resume text sent to the model.
type ExcerptBuilder struct {
	maxChars int
}

func NewExcerptBuilder(maxChars int) *ExcerptBuilder {
	if maxChars <= 0 {
		maxChars = 6000
	}
	return &ExcerptBuilder{maxChars: maxChars}
}

// Build returns text unchanged when it fits the budget. Otherwise prioritized
// sections are moved first and the result is cut to the budget.
func (eb *ExcerptBuilder) Build(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= eb.maxChars {
		return text
	}

	var prioritized, others []string
	for _, section := range splitSections(text) {
		if isPrioritySection(section) {
			prioritized = append(prioritized, section)
		} else {
			others = append(others, section)
		}
	}

	combined := strings.Join(append(prioritized, others...), "\n\n")
	return truncateRunes(combined, eb.maxChars)
}

// splitSections breaks text on blank lines and on heading lines.
func splitSections(text string) []string {
	var (
		sections []string
		current  []string
	)

	flush := func() {
		if len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if len(current) > 0 && looksLikeHeading(line) {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return sections
}

func looksLikeHeading(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 5 {
		return false
	}
	if strings.HasSuffix(line, ":") {
		return true
	}

	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return containsPriorityKeyword(strings.ToLower(line)) && len(words) <= 3
			}
		}
	}
	return hasLetter
}

func isPrioritySection(section string) bool {
	firstLine, _, _ := strings.Cut(section, "\n")
	return containsPriorityKeyword(strings.ToLower(firstLine))
}

func containsPriorityKeyword(lower string) bool {
	for _, keyword := range sectionPriority {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func truncateRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
