package generation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// BackendName identifies the remote upload backend.
const BackendName = "backend"

// uploadField is the multipart field carrying the résumé file.
const uploadField = "resume"

// BackendProvider uploads the original file to a question backend.
type BackendProvider struct {
	client  *resty.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

var _ Provider = (*BackendProvider)(nil)

func NewBackendProvider(url string, timeout time.Duration, logger *zap.Logger) *BackendProvider {
	if timeout <= 0 {
		timeout = DefaultBackendTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackendProvider{
		client:  resty.New(),
		url:     url,
		timeout: timeout,
		logger:  logger,
	}
}

func (p *BackendProvider) Name() string { return BackendName }

// Applicable is true only when the original file is available.
func (p *BackendProvider) Applicable(in Input) bool {
	return in.File != nil && len(in.File.Data) > 0
}

func (p *BackendProvider) Attempt(ctx context.Context, in Input) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.logger.Debug("uploading resume", zap.String("url", p.url), zap.String("file", in.File.Name))

	resp, err := p.client.R().
		SetContext(ctx).
		SetFileReader(uploadField, in.File.Name, bytes.NewReader(in.File.Data)).
		Post(p.url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, newProviderError(BackendName, ErrProviderTimeout, fmt.Errorf("no response after %s", p.timeout))
		}
		return nil, newProviderError(BackendName, ErrProviderUnavailable, err)
	}

	body := resp.Body()
	if resp.IsError() {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = resp.Status()
		}
		return nil, newProviderError(BackendName, ErrProviderUnavailable,
			fmt.Errorf("status %d: %s", resp.StatusCode(), msg))
	}

	return parseBackendResponse(body)
}

// parseBackendResponse accepts a bare question array or an object with
// questions and optional skills, experience and questions_categorized.
func parseBackendResponse(body []byte) (*Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, newProviderError(BackendName, ErrProviderMalformed, errors.New("response is not JSON"))
	}

	doc := gjson.ParseBytes(body)
	if doc.IsArray() {
		return &Result{Questions: stringArray(doc)}, nil
	}
	if !doc.IsObject() {
		return nil, newProviderError(BackendName, ErrProviderMalformed, errors.New("response is neither an array nor an object"))
	}

	qs := doc.Get("questions")
	if !qs.IsArray() {
		return nil, newProviderError(BackendName, ErrProviderMalformed, errors.New("response has no questions array"))
	}

	res := &Result{Questions: stringArray(qs)}

	skills, experience, categorized := doc.Get("skills"), doc.Get("experience"), doc.Get("questions_categorized")
	if skills.Exists() || experience.Exists() || categorized.Exists() {
		res.Metadata = &Metadata{
			Skills:     stringArray(skills),
			Experience: stringArray(experience),
		}
		if categorized.IsObject() {
			res.Metadata.Categorized = &Categorized{
				Technical: stringArray(categorized.Get("technical")),
				HR:        stringArray(categorized.Get("hr")),
			}
		}
	}
	return res, nil
}

// stringArray keeps the non-empty string elements of an array result.
func stringArray(r gjson.Result) []string {
	out := []string{}
	if !r.IsArray() {
		return out
	}
	r.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String && v.String() != "" {
			out = append(out, v.String())
		}
		return true
	})
	return out
}
