package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/audio"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/questions"
	"github.com/spigell/interview-coach/internal/scoring"
)

// State is a step of the interview.
type State string

const (
	Intro      State = "intro"
	Question   State = "question"
	Recording  State = "recording"
	Processing State = "processing"
	Feedback   State = "feedback"
	Finished   State = "finished"
)

// ErrIllegalTransition is returned when an event is not valid in the current
// state.
var ErrIllegalTransition = errors.New("illegal transition")

// Scorer evaluates one answer. *scoring.Engine implements it.
type Scorer interface {
	Score(ctx context.Context, answer, question string, index, running int) scoring.AnswerScore
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	ID            string
	State         State
	Index         int
	Count         int
	Question      string
	Running       int
	LastAnswer    string
	LastFeedback  string
	LastScore     *scoring.AnswerScore
	FinalFeedback string
	Tier          scoring.Tier
	AudioError    string
}

// Session sequences questions, drives the audio channel and folds scores
// into the running mean. Scoring runs in the background; results that
// arrive after End or for another question are dropped.
type Session struct {
	id        string
	questions questions.Set
	channel   audio.Channel
	scorer    Scorer
	logger    *zap.Logger

	mu           sync.Mutex
	state        State
	generation   uint64
	index        int
	running      int
	lastAnswer   string
	lastFeedback string
	lastScore    *scoring.AnswerScore
	final        string
	tier         scoring.Tier
	audioErr     string
	cancelScore  context.CancelFunc

	wg sync.WaitGroup
}

// New creates a session in the intro state.
func New(qs questions.Set, channel audio.Channel, scorer Scorer, log *zap.Logger) (*Session, error) {
	if len(qs) == 0 {
		return nil, errors.New("session needs at least one question")
	}
	if channel == nil {
		return nil, errors.New("audio channel is required")
	}
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}

	id := uuid.NewString()
	return &Session{
		id:        id,
		questions: qs.Clone(),
		channel:   channel,
		scorer:    scorer,
		logger:    logger.ForSession(log, id),
		state:     Intro,
	}, nil
}

func (s *Session) ID() string { return s.id }

// Start begins the round and speaks the first question.
func (s *Session) Start(_ context.Context) error {
	s.mu.Lock()
	if s.state != Intro {
		defer s.mu.Unlock()
		return s.illegal("start")
	}
	s.reset()
	s.transition(Question)
	q := s.questions[0]
	s.mu.Unlock()

	s.channel.Speak(q)
	return nil
}

// BeginAnswer opens audio capture for the current question. Capture errors
// are kept as the session's audio error and the answer continues empty.
func (s *Session) BeginAnswer(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Question {
		defer s.mu.Unlock()
		return s.illegal("begin answer")
	}
	s.audioErr = ""
	s.transition(Recording)
	gen := s.generation
	s.mu.Unlock()

	if err := s.channel.StartCapture(ctx); err != nil {
		s.mu.Lock()
		if s.generation == gen {
			s.audioErr = err.Error()
		}
		s.mu.Unlock()
		s.logger.Warn("audio capture failed", zap.Error(err))
	}
	return nil
}

// EndAnswer closes capture and scores the transcript in the background.
// Call Wait to block until the score is applied.
func (s *Session) EndAnswer(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Recording {
		defer s.mu.Unlock()
		return s.illegal("end answer")
	}
	s.transition(Processing)
	gen, index, running := s.generation, s.index, s.running
	question := s.questions[index]
	s.mu.Unlock()

	transcript, err := s.channel.StopCapture(ctx)

	s.mu.Lock()
	if s.generation != gen || s.state != Processing {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.audioErr = err.Error()
		s.logger.Warn("audio capture stop failed", zap.Error(err))
	}
	s.lastAnswer = transcript
	scoreCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelScore = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()

		res := s.scorer.Score(scoreCtx, transcript, question, index, running)
		s.applyScore(gen, index, res)
	}()
	return nil
}

func (s *Session) applyScore(gen uint64, index int, res scoring.AnswerScore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen || s.state != Processing || s.index != index {
		s.logger.Debug("discarding stale score",
			zap.Int("question_index", index),
			zap.Int("score", res.Score),
		)
		return
	}

	s.lastScore = &res
	s.running = res.Running
	s.lastFeedback = res.Feedback
	s.cancelScore = nil
	s.transition(Feedback)
}

// Next advances to the following question or finishes the round.
func (s *Session) Next(_ context.Context) error {
	s.mu.Lock()
	if s.state != Feedback {
		defer s.mu.Unlock()
		return s.illegal("next")
	}

	if s.index+1 >= len(s.questions) {
		s.final = scoring.FinalFeedback(s.running)
		s.tier = scoring.Classify(s.running)
		s.transition(Finished)
		s.mu.Unlock()
		return nil
	}

	s.index++
	s.lastAnswer = ""
	s.lastFeedback = ""
	s.lastScore = nil
	s.transition(Question)
	q := s.questions[s.index]
	s.mu.Unlock()

	s.channel.Speak(q)
	return nil
}

// End aborts the round from any state. Capture is force-stopped and any
// in-flight score is discarded.
func (s *Session) End(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	if s.cancelScore != nil {
		s.cancelScore()
		s.cancelScore = nil
	}
	s.reset()
	s.transition(Intro)
	s.mu.Unlock()

	if _, err := s.channel.StopCapture(ctx); err != nil {
		s.logger.Debug("stopping capture on end", zap.Error(err))
	}
}

// Restart returns a finished session to intro.
func (s *Session) Restart(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Finished {
		return s.illegal("restart")
	}
	s.generation++
	s.reset()
	s.transition(Intro)
	return nil
}

// Wait blocks until background scoring has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:            s.id,
		State:         s.state,
		Index:         s.index,
		Count:         len(s.questions),
		Question:      s.questions[s.index],
		Running:       s.running,
		LastAnswer:    s.lastAnswer,
		LastFeedback:  s.lastFeedback,
		FinalFeedback: s.final,
		Tier:          s.tier,
		AudioError:    s.audioErr,
	}
	if s.lastScore != nil {
		score := *s.lastScore
		snap.LastScore = &score
	}
	return snap
}

// reset clears round state. Callers hold mu.
func (s *Session) reset() {
	s.index = 0
	s.running = 0
	s.lastAnswer = ""
	s.lastFeedback = ""
	s.lastScore = nil
	s.final = ""
	s.tier = ""
	s.audioErr = ""
}

// transition moves to next. Callers hold mu.
func (s *Session) transition(next State) {
	s.logger.Debug("session transition",
		zap.String("from", string(s.state)),
		zap.String("to", string(next)),
		zap.Int("question_index", s.index),
	)
	s.state = next
}

func (s *Session) illegal(event string) error {
	return fmt.Errorf("%w: %s in state %s", ErrIllegalTransition, event, s.state)
}
