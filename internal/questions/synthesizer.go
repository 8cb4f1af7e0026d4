package questions

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/spigell/interview-coach/internal/signals"
)

// Count is the size of every generated question set.
const Count = 5

// Set is an ordered list of distinct interview questions.
type Set []string

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	return append(Set(nil), s...)
}

// Rand is the randomness used for template selection. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a seeded source. A zero seed picks one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Synthesizer builds personalized question sets from a signal set.
type Synthesizer struct {
	catalog *Catalog

	mu  sync.Mutex
	rng Rand
}

// NewSynthesizer creates a synthesizer. Nil arguments select the built-in
// catalog and a clock-seeded source.
func NewSynthesizer(catalog *Catalog, rng Rand) *Synthesizer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if rng == nil {
		rng = NewRand(0)
	}
	return &Synthesizer{catalog: catalog, rng: rng}
}

// step is one priority rule: take up to take values and stop while the set
// already holds limit questions.
type step struct {
	family Family
	values func(*signals.Set) []string
	take   int
	limit  int
}

var steps = []step{
	{family: SpecificTechnology, values: func(s *signals.Set) []string { return s.Technologies }, take: 2, limit: 2},
	{family: ProjectSpecific, values: func(s *signals.Set) []string { return s.Projects }, take: 2, limit: 3},
	{family: FrameworkSpecific, values: func(s *signals.Set) []string { return s.Frameworks }, take: 1, limit: 3},
	{family: DatabaseExperience, values: func(s *signals.Set) []string { return s.Databases }, take: 1, limit: 4},
	{family: CloudExperience, values: func(s *signals.Set) []string { return s.CloudServices }, take: 1, limit: 4},
	{family: RoleSpecific, values: func(s *signals.Set) []string { return s.Roles }, take: 1, limit: 5},
}

// Synthesize returns exactly Count distinct questions for the signal set.
func (s *Synthesizer) Synthesize(set *signals.Set) Set {
	if set == nil {
		set = &signals.Set{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := newBuilder()

	for _, st := range steps {
		values := st.values(set)
		if len(values) > st.take {
			values = values[:st.take]
		}
		for _, v := range values {
			if b.len() >= st.limit {
				break
			}
			b.add(s.instantiate(st.family, v))
		}
	}

	s.fillGeneric(b)

	out := b.list
	if len(out) > Count {
		out = out[:Count]
	}
	return out
}

// Fill tops base up to Count distinct questions using the generic pools.
// base is trimmed and deduplicated first, and anything beyond Count is dropped.
func (s *Synthesizer) Fill(base []string) Set {
	b := newBuilder()
	for _, q := range base {
		if b.len() == Count {
			break
		}
		b.add(strings.TrimSpace(q))
	}

	s.mu.Lock()
	s.fillGeneric(b)
	s.mu.Unlock()

	return b.list
}

func (s *Synthesizer) fillGeneric(b *builder) {
	pool := make([]string, 0)
	pool = append(pool, s.catalog.Templates(ProblemSolving)...)
	pool = append(pool, s.catalog.Templates(SystemDesign)...)

	for b.len() < Count {
		remaining := pool[:0:0]
		for _, q := range pool {
			if !b.has(q) {
				remaining = append(remaining, q)
			}
		}
		if len(remaining) == 0 {
			return
		}
		b.add(remaining[s.rng.IntN(len(remaining))])
	}
}

func (s *Synthesizer) instantiate(f Family, value string) string {
	variants := s.catalog.Templates(f)
	tpl := variants[s.rng.IntN(len(variants))]
	return strings.ReplaceAll(tpl, token(placeholders[f]), value)
}

type builder struct {
	list Set
	used map[string]struct{}
}

func newBuilder() *builder {
	return &builder{list: make(Set, 0, Count), used: make(map[string]struct{})}
}

func (b *builder) len() int { return len(b.list) }

func (b *builder) has(q string) bool {
	_, ok := b.used[q]
	return ok
}

func (b *builder) add(q string) {
	if q == "" || b.has(q) {
		return
	}
	b.used[q] = struct{}{}
	b.list = append(b.list, q)
}
