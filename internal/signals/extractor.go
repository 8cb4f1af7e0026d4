// Package signals infers technical and professional signals from free-text résumé content.
package signals

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Category names a keyword bucket of a Set.
type Category string

const (
	Technologies   Category = "technologies"
	Frameworks     Category = "frameworks"
	Databases      Category = "databases"
	CloudServices  Category = "cloudServices"
	Tools          Category = "tools"
	Languages      Category = "languages"
	Roles          Category = "roles"
	Industries     Category = "industries"
	Certifications Category = "certifications"
	Methodologies  Category = "methodologies"
)

// Categories lists every keyword category in a stable order.
var Categories = []Category{
	Technologies, Frameworks, Databases, CloudServices, Tools,
	Languages, Roles, Industries, Certifications, Methodologies,
}

const (
	experienceCap  = 5
	achievementCap = 5
	projectCap     = 3
	maxProjectLen  = 50
	minProjectLen  = 3
)

// Set is the result of one extraction. Category slices hold unique
// lowercase keywords in discovery order and are never nil.
type Set struct {
	Technologies   []string `json:"technologies"`
	Frameworks     []string `json:"frameworks"`
	Databases      []string `json:"databases"`
	CloudServices  []string `json:"cloudServices"`
	Tools          []string `json:"tools"`
	Languages      []string `json:"languages"`
	Roles          []string `json:"roles"`
	Industries     []string `json:"industries"`
	Certifications []string `json:"certifications"`
	Methodologies  []string `json:"methodologies"`

	Experience   []string `json:"experience"`
	Achievements []string `json:"achievements"`
	Projects     []string `json:"projects"`
}

// Category returns the keywords collected for c.
func (s *Set) Category(c Category) []string {
	if s == nil {
		return nil
	}
	if p := s.slot(c); p != nil {
		return *p
	}
	return nil
}

func (s *Set) slot(c Category) *[]string {
	switch c {
	case Technologies:
		return &s.Technologies
	case Frameworks:
		return &s.Frameworks
	case Databases:
		return &s.Databases
	case CloudServices:
		return &s.CloudServices
	case Tools:
		return &s.Tools
	case Languages:
		return &s.Languages
	case Roles:
		return &s.Roles
	case Industries:
		return &s.Industries
	case Certifications:
		return &s.Certifications
	case Methodologies:
		return &s.Methodologies
	}
	return nil
}

// Empty reports whether no signal of any kind was found.
func (s *Set) Empty() bool {
	for _, c := range Categories {
		if len(s.Category(c)) > 0 {
			return false
		}
	}
	return len(s.Experience) == 0 && len(s.Achievements) == 0 && len(s.Projects) == 0
}

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(of\s*)?(experience|exp)`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(working|developing|programming)`),
	regexp.MustCompile(`(?i)experience\s*(with|in|using)`),
	regexp.MustCompile(`(?i)worked\s*(on|with|at)`),
	regexp.MustCompile(`(?i)developed`),
	regexp.MustCompile(`(?i)built`),
	regexp.MustCompile(`(?i)created`),
	regexp.MustCompile(`(?i)implemented`),
	regexp.MustCompile(`(?i)designed`),
	regexp.MustCompile(`(?i)led`),
	regexp.MustCompile(`(?i)managed`),
	regexp.MustCompile(`(?i)architected`),
	regexp.MustCompile(`(?i)optimized`),
	regexp.MustCompile(`(?i)maintained`),
}

var achievementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)%\s*(improvement|increase|decrease|reduction)`),
	regexp.MustCompile(`(?i)(\d+)x\s*(faster|improvement|increase)`),
	regexp.MustCompile(`(?i)improved.*performance`),
	regexp.MustCompile(`(?i)optimized`),
	regexp.MustCompile(`(?i)reduced.*by`),
	regexp.MustCompile(`(?i)increased.*by`),
}

// projectSection spans from a projects heading to the next known heading or
// the end of the text.
var projectSection = regexp.MustCompile(`(?i)(?:projects?|portfolio|personal projects)[\s\S]*?(?:experience|education|skills|certifications|$)`)

// Extract scans text for signals. Keyword matching is a plain substring test
// on the lowercased text, so short keywords also match inside longer words.
func Extract(text string) *Set {
	set := newSet()
	lower := strings.ToLower(text)

	seen := make(map[Category]map[string]struct{}, len(Categories))
	for _, c := range Categories {
		seen[c] = make(map[string]struct{})
	}

	for _, e := range table {
		if !strings.Contains(lower, e.keyword) {
			continue
		}
		for _, c := range e.targets {
			if _, dup := seen[c][e.keyword]; dup {
				continue
			}
			seen[c][e.keyword] = struct{}{}
			p := set.slot(c)
			*p = append(*p, e.keyword)
		}
	}

	set.Experience = collect(text, experiencePatterns, experienceCap)
	set.Achievements = collect(text, achievementPatterns, achievementCap)
	set.Projects = projects(text)

	return set
}

func newSet() *Set {
	s := &Set{}
	for _, c := range Categories {
		*s.slot(c) = []string{}
	}
	s.Experience = []string{}
	s.Achievements = []string{}
	s.Projects = []string{}
	return s
}

// collect runs patterns in order against the original-case text, keeping at
// most limit matches per pattern.
func collect(text string, patterns []*regexp.Regexp, limit int) []string {
	out := []string{}
	for _, re := range patterns {
		out = append(out, re.FindAllString(text, limit)...)
	}
	return out
}

func projects(text string) []string {
	out := []string{}
	section := projectSection.FindString(text)
	if section == "" {
		return out
	}

	for _, line := range strings.Split(section, "\n") {
		if len(out) == projectCap {
			break
		}
		if isProjectTitle(strings.TrimSpace(line)) {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

func isProjectTitle(line string) bool {
	n := utf8.RuneCountInString(line)
	if n < minProjectLen || n >= maxProjectLen {
		return false
	}
	if strings.Contains(strings.ToLower(line), "project") {
		return false
	}
	if line[0] < 'A' || line[0] > 'Z' {
		return false
	}
	if strings.Contains(line, ":") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") {
		return false
	}
	return true
}
