// Package prefs turns free-text roommate preferences ("I'm quiet, no
// pets, budget around $900 a month") into the structured fields the
// matching engine reads. Extraction is a pure function over ordered
// pattern lists: per category the first matching pattern wins.
package prefs

import (
	"regexp"
	"strconv"
	"strings"
)

// Extracted is the structured preference record pulled out of one text.
// Nil/empty fields mean the text said nothing about them.
type Extracted struct {
	Budget     *float64          `json:"budget,omitempty"`
	Location   string            `json:"location,omitempty"`
	Age        *int              `json:"age,omitempty"`
	University string            `json:"university,omitempty"`
	Lifestyle  map[string]string `json:"lifestylePreferences,omitempty"`
	Interests  []string          `json:"interests,omitempty"`
}

var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\$?\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:per\s*month|monthly|a\s*month)`),
	regexp.MustCompile(`(?i)budget\s*(?:of\s*)?(\$?\d+(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:dollars?|bucks?)`),
	regexp.MustCompile(`(?i)around\s*(\$?\d+(?:,\d{3})*(?:\.\d{2})?)`),
}

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:near|close\s*to|around)\s*([A-Za-z\s]+(?:university|college|school))`),
	regexp.MustCompile(`(?i)(?:at|in)\s*([A-Za-z\s]+(?:university|college|school))`),
	regexp.MustCompile(`(?i)([A-Za-z\s]+(?:university|college|school))`),
	regexp.MustCompile(`(?i)(?:near|in|at)\s*([A-Za-z\s]+(?:campus|downtown|city))`),
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{1,2})\s*(?:years?\s*old|yo)`),
	regexp.MustCompile(`(?i)age\s*(\d{1,2})`),
	regexp.MustCompile(`(?i)(\d{1,2})\s*(?:years?)`),
}

var universityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:at|in|from)\s*([A-Za-z\s]+(?:university|college|school))`),
	regexp.MustCompile(`(?i)([A-Za-z\s]+(?:university|college|school))`),
	regexp.MustCompile(`(?i)(?:studying|student)\s*(?:at|in)\s*([A-Za-z\s]+)`),
}

// lifestyleCategory pairs a preference key with its ordered pattern list.
// Slice order keeps extraction deterministic over the open category set.
type lifestyleCategory struct {
	key      string
	patterns []*regexp.Regexp
}

var lifestyleCategories = []lifestyleCategory{
	{"cleanliness", compileAll(
		`(?:very\s*)?clean`, `neat`, `tidy`, `organized`, `messy`, `(?:not\s*)?clean`,
	)},
	{"noise", compileAll(
		`quiet`, `silent`, `loud`, `noisy`, `peaceful`, `(?:not\s*)?loud`,
	)},
	{"guests", compileAll(
		`(?:no\s*)?guests`, `(?:no\s*)?visitors`, `(?:no\s*)?friends`,
		`occasional`, `frequent`, `(?:not\s*)?social`,
	)},
	{"pets", compileAll(
		`(?:no\s*)?pets`, `(?:no\s*)?animals`, `(?:no\s*)?dogs`, `(?:no\s*)?cats`, `pet\s*friendly`,
	)},
	{"smoking", compileAll(
		`(?:no\s*)?smoking`, `(?:no\s*)?cigarettes`, `(?:no\s*)?vaping`, `smoke\s*free`,
	)},
	{"partying", compileAll(
		`(?:no\s*)?partying`, `(?:no\s*)?parties`, `(?:no\s*)?drinking`, `(?:no\s*)?alcohol`, `social`,
	)},
	{"study", compileAll(
		`study`, `studying`, `academic`, `focused`, `(?:not\s*)?distracted`,
	)},
}

var interestKeywords = []string{
	"gaming", "video games", "sports", "fitness", "gym", "running", "biking",
	"music", "guitar", "piano", "singing", "art", "painting", "drawing",
	"cooking", "baking", "reading", "books", "movies", "netflix", "tv",
	"travel", "hiking", "outdoor", "nature", "photography", "dancing",
	"programming", "coding", "tech", "startup", "entrepreneur",
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

// Extract pulls every recognizable preference out of text.
func Extract(text string) Extracted {
	var e Extracted

	e.Budget = extractBudget(text)
	e.Location = firstGroup(locationPatterns, text)
	e.Age = extractAge(text)
	e.University = firstGroup(universityPatterns, text)
	e.Lifestyle = extractLifestyle(text)
	e.Interests = extractInterests(text)

	return e
}

func extractBudget(text string) *float64 {
	for _, p := range budgetPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount := strings.NewReplacer("$", "", ",", "").Replace(m[1])
		if n, err := strconv.ParseFloat(amount, 64); err == nil && n > 0 {
			return &n
		}
	}
	return nil
}

func extractAge(text string) *int {
	for _, p := range agePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 && n < 100 {
			return &n
		}
	}
	return nil
}

func firstGroup(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func extractLifestyle(text string) map[string]string {
	out := map[string]string{}
	for _, cat := range lifestyleCategories {
		for _, p := range cat.patterns {
			m := p.FindString(text)
			if m == "" {
				continue
			}
			out[cat.key] = classify(m)
			break // first match wins per category
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// classify maps a matched phrase to a preference level. The fallback
// chain is a behavioral contract: negation beats intensity beats
// frequency, anything else is "moderate".
func classify(matched string) string {
	m := strings.ToLower(matched)
	switch {
	case strings.Contains(m, "no ") || strings.Contains(m, "not "):
		return "none"
	case strings.Contains(m, "very "):
		return "high"
	case strings.Contains(m, "occasional") || strings.Contains(m, "sometimes"):
		return "occasional"
	case strings.Contains(m, "frequent") || strings.Contains(m, "often"):
		return "frequent"
	default:
		return "moderate"
	}
}

func extractInterests(text string) []string {
	lower := strings.ToLower(text)
	var interests []string
	for _, kw := range interestKeywords {
		if strings.Contains(lower, kw) {
			interests = append(interests, kw)
		}
	}
	return interests
}
