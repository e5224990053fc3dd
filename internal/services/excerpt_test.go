package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExcerptShortTextUnchanged(t *testing.T) {
	eb := NewExcerptBuilder(100)
	assert.Equal(t, "Hobbies\nChess", eb.Build("  Hobbies\nChess  "))
}

func TestExcerptPrioritizesSections(t *testing.T) {
	hobbies := "Hobbies\n" + strings.Repeat("chess and hiking ", 20)
	experience := "Work Experience\nBackend engineer at Acme building Go services"
	skills := "SKILLS\nGo, Redis, Kubernetes"
	text := hobbies + "\n\n" + experience + "\n" + skills

	got := NewExcerptBuilder(200).Build(text)

	assert.True(t, strings.HasPrefix(got, "Work Experience\nBackend engineer"))
	assert.Contains(t, got, "SKILLS\nGo, Redis, Kubernetes\n\nHobbies")
	assert.Equal(t, 200, utf8.RuneCountInString(got))
}

func TestExcerptTruncatesOnRuneBoundary(t *testing.T) {
	text := strings.Repeat("é", 50)
	got := NewExcerptBuilder(10).Build(text)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 10, utf8.RuneCountInString(got))
}

func TestSplitSectionsOnHeadings(t *testing.T) {
	sections := splitSections("Jane Doe\nEXPERIENCE\nAcme\nProjects:\nRanker\n\nHobbies")

	assert.Equal(t, []string{"Jane Doe", "EXPERIENCE\nAcme", "Projects:\nRanker", "Hobbies"}, sections)
}
