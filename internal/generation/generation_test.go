package generation

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/interview-coach/internal/docparse"
	"github.com/spigell/interview-coach/internal/questions"
)

const resumeText = `Jane Doe
Software Engineer
Skills: Python, Flask
Projects
Resume Bot
Education
BSc Computer Science`

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

func testSynth() *questions.Synthesizer {
	return questions.NewSynthesizer(nil, firstRand{})
}

func resumeFile() *docparse.Document {
	return &docparse.Document{Name: "cv.txt", Data: []byte(resumeText)}
}

type stubProvider struct {
	name       string
	applicable bool
	result     *Result
	err        error
	calls      int
}

func (s *stubProvider) Name() string          { return s.name }
func (s *stubProvider) Applicable(Input) bool { return s.applicable }
func (s *stubProvider) Attempt(context.Context, Input) (*Result, error) {
	s.calls++
	return s.result, s.err
}

type stubWriter struct {
	reply string
	err   error
	delay time.Duration
}

func (s *stubWriter) WriteQuestions(ctx context.Context, _ string) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func assertDistinct(t *testing.T, qs questions.Set) {
	t.Helper()
	seen := map[string]bool{}
	for _, q := range qs {
		require.False(t, seen[q], "duplicate question %q", q)
		seen[q] = true
	}
}

func TestGenerateRejectsInvalidInput(t *testing.T) {
	o := New(Config{Synthesizer: testSynth()}, nil)

	for _, text := range []string{"", "   ", "too short"} {
		_, err := o.Generate(context.Background(), Input{ResumeText: text})
		require.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestGenerateFallsBackToLocalWhenBackendIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	o := New(Config{BackendURL: url, Synthesizer: testSynth()}, zap.New(core))
	require.Equal(t, []string{BackendName, LocalName}, o.Providers())

	res, err := o.Generate(context.Background(), Input{ResumeText: resumeText, File: resumeFile()})
	require.NoError(t, err)
	assert.Equal(t, LocalName, res.Provider)
	assert.Len(t, res.Questions, questions.Count)
	assertDistinct(t, res.Questions)

	failures := logs.FilterMessage("provider failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, BackendName, failures[0].ContextMap()["provider"])
}

func TestGenerateUsesBackendMetadata(t *testing.T) {
	var gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("resume")
		if err != nil {
			http.Error(w, `{"error":"No file part in request"}`, http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(f)
		gotFile = hdr.Filename + ":" + string(data[:8])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"status": "success",
			"questions": ["Q1?", "Q2?", "Q3?", "Q4?", "Q5?", "Q6?", "Q7?", "Q8?"],
			"skills": ["python", "flask"],
			"experience": ["3 years of experience"],
			"questions_categorized": {"technical": ["Q2?", "Q3?"], "hr": ["Q4?"]}
		}`)
	}))
	defer srv.Close()

	o := New(Config{BackendURL: srv.URL, Synthesizer: testSynth()}, nil)
	res, err := o.Generate(context.Background(), Input{ResumeText: resumeText, File: resumeFile()})
	require.NoError(t, err)

	assert.Equal(t, "cv.txt:Jane Doe", gotFile)
	assert.Equal(t, BackendName, res.Provider)
	assert.Equal(t, questions.Set{"Q1?", "Q2?", "Q3?", "Q4?", "Q5?"}, res.Questions)
	require.NotNil(t, res.Metadata)
	assert.Equal(t, []string{"python", "flask"}, res.Metadata.Skills)
	require.NotNil(t, res.Metadata.Categorized)
	assert.Equal(t, []string{"Q4?"}, res.Metadata.Categorized.HR)
}

func TestBackendSkippedWithoutFile(t *testing.T) {
	backend := &stubProvider{name: BackendName}
	backend.applicable = false
	o := NewWithProviders(testSynth(), nil, backend, NewLocalProvider(testSynth()))

	res, err := o.Generate(context.Background(), Input{ResumeText: resumeText})
	require.NoError(t, err)
	assert.Equal(t, LocalName, res.Provider)
	assert.Zero(t, backend.calls)
}

func TestBackendErrors(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"status":"error","error":"model overloaded"}`)
		}))
		defer srv.Close()

		_, err := NewBackendProvider(srv.URL, time.Second, nil).Attempt(context.Background(), Input{File: resumeFile()})
		require.ErrorIs(t, err, ErrProviderUnavailable)
		assert.Contains(t, err.Error(), "model overloaded")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, err := NewBackendProvider(srv.URL, 50*time.Millisecond, nil).Attempt(context.Background(), Input{File: resumeFile()})
		require.ErrorIs(t, err, ErrProviderTimeout)
	})

	t.Run("malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"status":"success"}`)
		}))
		defer srv.Close()

		_, err := NewBackendProvider(srv.URL, time.Second, nil).Attempt(context.Background(), Input{File: resumeFile()})
		require.ErrorIs(t, err, ErrProviderMalformed)
	})
}

func TestParseBackendResponse(t *testing.T) {
	res, err := parseBackendResponse([]byte(`["A?", 3, "", "B?"]`))
	require.NoError(t, err)
	assert.Equal(t, questions.Set{"A?", "B?"}, res.Questions)
	assert.Nil(t, res.Metadata)

	_, err = parseBackendResponse([]byte(`not json`))
	require.ErrorIs(t, err, ErrProviderMalformed)

	_, err = parseBackendResponse([]byte(`"just a string"`))
	require.ErrorIs(t, err, ErrProviderMalformed)
}

func TestGenerateWithAIProvider(t *testing.T) {
	writer := &stubWriter{reply: "```json\n[\"How did you scale the Flask API?\", \"What drove the Resume Bot design?\", \"short\", \"Describe a Python refactor you led.\"]\n```"}
	o := New(Config{Writer: writer, Synthesizer: testSynth()}, nil)

	res, err := o.Generate(context.Background(), Input{ResumeText: resumeText})
	require.NoError(t, err)
	assert.Equal(t, AIName, res.Provider)
	require.Len(t, res.Questions, questions.Count)
	assert.Equal(t, "How did you scale the Flask API?", res.Questions[0])
	assert.Equal(t, "Describe a Python refactor you led.", res.Questions[2])
	assertDistinct(t, res.Questions)
}

func TestAIProviderSalvagesPlainText(t *testing.T) {
	reply := `Here are some questions:
1. Tell me about your Flask experience
2. What was hardest in Resume Bot?
- How do you test Python code?
Good luck!`
	p := NewAIProvider(&stubWriter{reply: reply}, time.Second, nil)

	res, err := p.Attempt(context.Background(), Input{ResumeText: resumeText})
	require.NoError(t, err)
	assert.Equal(t, questions.Set{
		"Tell me about your Flask experience",
		"What was hardest in Resume Bot?",
		"How do you test Python code?",
	}, res.Questions)
}

func TestAIProviderFailures(t *testing.T) {
	tests := []struct {
		name   string
		writer *stubWriter
		kind   error
	}{
		{name: "too few questions", writer: &stubWriter{reply: `["Only one question here?"]`}, kind: ErrProviderMalformed},
		{name: "prose", writer: &stubWriter{reply: "I cannot help with that."}, kind: ErrProviderMalformed},
		{name: "transport", writer: &stubWriter{err: errors.New("connection reset")}, kind: ErrProviderUnavailable},
		{name: "timeout", writer: &stubWriter{delay: time.Second}, kind: ErrProviderTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewAIProvider(tt.writer, 20*time.Millisecond, nil)
			_, err := p.Attempt(context.Background(), Input{ResumeText: resumeText})
			require.ErrorIs(t, err, tt.kind)

			var perr *ProviderError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, AIName, perr.Provider)
		})
	}
}

func TestGenerateExhausted(t *testing.T) {
	first := &stubProvider{name: "first", applicable: true, err: errors.New("down")}
	second := &stubProvider{name: "second", applicable: true, result: &Result{}}
	o := NewWithProviders(testSynth(), nil, first, second)

	_, err := o.Generate(context.Background(), Input{ResumeText: resumeText})
	require.ErrorIs(t, err, ErrExhausted)
	require.ErrorIs(t, err, ErrProviderUnavailable)
	require.ErrorIs(t, err, ErrProviderMalformed)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)

	_, err = NewWithProviders(testSynth(), nil).Generate(context.Background(), Input{ResumeText: resumeText})
	require.ErrorIs(t, err, ErrExhausted)
}

func TestLocalProviderPersonalizes(t *testing.T) {
	res, err := NewLocalProvider(testSynth()).Attempt(context.Background(), Input{ResumeText: resumeText})
	require.NoError(t, err)
	require.Len(t, res.Questions, questions.Count)

	var tech, project bool
	for _, q := range res.Questions {
		lower := strings.ToLower(q)
		if strings.Contains(lower, "python") || strings.Contains(lower, "flask") {
			tech = true
		}
		if strings.Contains(q, "Resume Bot") {
			project = true
		}
	}
	assert.True(t, tech, "expected a technology question in %v", res.Questions)
	assert.True(t, project, "expected a project question in %v", res.Questions)
	require.NotNil(t, res.Metadata)
	assert.Contains(t, res.Metadata.Skills, "python")
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(ErrInvalidInput), "too short")
	assert.Contains(t, UserMessage(newProviderError(AIName, ErrProviderTimeout, nil)), "too long")
	assert.Contains(t, UserMessage(errors.New("boom")), "Something went wrong")
}
