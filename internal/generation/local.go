package generation

import (
	"context"

	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/signals"
)

// LocalName identifies the offline synthesizer.
const LocalName = "local"

// LocalProvider extracts signals and synthesizes questions in-process. It
// never fails.
type LocalProvider struct {
	synth *questions.Synthesizer
}

var _ Provider = (*LocalProvider)(nil)

func NewLocalProvider(synth *questions.Synthesizer) *LocalProvider {
	if synth == nil {
		synth = questions.NewSynthesizer(nil, nil)
	}
	return &LocalProvider{synth: synth}
}

func (p *LocalProvider) Name() string { return LocalName }

func (p *LocalProvider) Applicable(Input) bool { return true }

func (p *LocalProvider) Attempt(_ context.Context, in Input) (*Result, error) {
	set := signals.Extract(in.ResumeText)
	return &Result{
		Questions: p.synth.Synthesize(set),
		Metadata: &Metadata{
			Skills:     set.Skills(),
			Experience: set.Experience,
		},
	}, nil
}
