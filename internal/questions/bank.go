package questions

import (
	_ "embed"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	perSkillQuestions = 2
	maxDraftQuestions = 7
	// aliases this short only match as whole words.
	shortAliasLen = 3
)

//go:embed bank.yaml
var defaultBankData []byte

// Bank is the static per-skill question database used when no AI analysis
// is available.
type Bank struct {
	Intro     string              `yaml:"intro"`
	Skills    map[string][]string `yaml:"skills"`
	Generic   []string            `yaml:"generic"`
	AliasOnly []string            `yaml:"alias-only"`
	Aliases   map[string]string   `yaml:"aliases"`

	names   []string
	matches []aliasMatcher
}

type aliasMatcher struct {
	alias string
	skill string
	re    *regexp.Regexp
}

// Draft is a bank-built question list split into technical and behavioural
// halves. Questions always starts with the intro question.
type Draft struct {
	Questions []string
	Technical []string
	HR        []string
}

var (
	bankOnce    sync.Once
	defaultBank *Bank
)

// DefaultBank returns the built-in question bank.
func DefaultBank() *Bank {
	bankOnce.Do(func() {
		b, err := ParseBank(defaultBankData)
		if err != nil {
			panic(fmt.Sprintf("built-in question bank: %v", err))
		}
		defaultBank = b
	})
	return defaultBank
}

// ParseBank decodes a YAML question bank.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if strings.TrimSpace(b.Intro) == "" {
		return nil, fmt.Errorf("question bank needs an intro question")
	}
	if len(b.Generic) == 0 {
		return nil, fmt.Errorf("question bank needs a generic pool")
	}

	for name := range b.Skills {
		b.names = append(b.names, name)
	}
	slices.Sort(b.names)

	aliases := make([]string, 0, len(b.Aliases))
	for alias := range b.Aliases {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)

	for _, alias := range aliases {
		skill := b.Aliases[alias]
		if _, ok := b.Skills[skill]; !ok {
			continue
		}
		m := aliasMatcher{alias: alias, skill: skill}
		if len(alias) <= shortAliasLen {
			m.re = regexp.MustCompile(`\b` + regexp.QuoteMeta(alias) + `\b`)
		}
		b.matches = append(b.matches, m)
	}

	return &b, nil
}

// MatchSkills returns the bank skills mentioned in text, in bank order.
func (b *Bank) MatchSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]struct{})

	for _, name := range b.names {
		if slices.Contains(b.AliasOnly, name) {
			continue
		}
		if strings.Contains(lower, name) {
			found[name] = struct{}{}
		}
	}

	for _, m := range b.matches {
		if m.re != nil {
			if m.re.MatchString(lower) {
				found[m.skill] = struct{}{}
			}
			continue
		}
		if strings.Contains(lower, m.alias) {
			found[m.skill] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for _, name := range b.names {
		if _, ok := found[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Draft samples up to two questions per skill, pads with generic questions,
// shuffles, and prefixes the intro question.
func (b *Bank) Draft(skills []string, rng Rand) Draft {
	if rng == nil {
		rng = NewRand(0)
	}

	var picked []string
	for _, skill := range skills {
		picked = append(picked, sample(b.Skills[skill], perSkillQuestions, rng)...)
	}
	if len(picked) < Count {
		picked = append(picked, sample(b.Generic, Count-len(picked), rng)...)
	}

	shuffle(picked, rng)
	if len(picked) > maxDraftQuestions {
		picked = picked[:maxDraftQuestions]
	}

	final := append([]string{b.Intro}, picked...)
	techCount := len(final) / 2

	return Draft{
		Questions: final,
		Technical: slices.Clone(final[1 : techCount+1]),
		HR:        slices.Clone(final[techCount+1:]),
	}
}

func sample(pool []string, n int, rng Rand) []string {
	if n > len(pool) {
		n = len(pool)
	}
	cp := slices.Clone(pool)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(cp)-i)
		cp[i], cp[j] = cp[j], cp[i]
	}
	return cp[:n]
}

func shuffle(list []string, rng Rand) {
	for i := len(list) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		list[i], list[j] = list[j], list[i]
	}
}
