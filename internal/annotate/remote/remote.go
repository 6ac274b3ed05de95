// internal/annotate/remote/remote.go

// Package remote provides an Annotator backed by an HTTP NER service such
// as a spaCy or Stanza model wrapped in a small web server.
//
// The service receives {"texts": [...]} and must answer with
// {"documents": [{"entities": [{"text", "label", "start", "end"}]}]},
// one document per text, in order.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/UCREL/HEC/internal/annotate"
	"github.com/UCREL/HEC/internal/util"
)

const defaultTimeout = 120 * time.Second

// maxResponseBytes bounds the size of a service response.
var maxResponseBytes = 64 << 20

// ErrInvalidResponse is returned when the service answers with a payload
// that does not match the expected document schema.
var ErrInvalidResponse = errors.New("remote annotator: invalid response")

var responseSchema = gojsonschema.NewStringLoader(`{
  "type": "object",
  "required": ["documents"],
  "properties": {
    "documents": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["entities"],
        "properties": {
          "entities": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["text", "label", "start", "end"],
              "properties": {
                "text":  {"type": "string"},
                "label": {"type": "string"},
                "start": {"type": "integer", "minimum": 0},
                "end":   {"type": "integer", "minimum": 0}
              }
            }
          }
        }
      }
    }
  }
}`)

// Options configures an Annotator.
type Options struct {
	// Endpoint is the full URL the batch is POSTed to.
	Endpoint string
	// Model is forwarded to the service when set, for servers hosting more
	// than one pipeline.
	Model string
	// Device is forwarded as a hint ("cpu" or "gpu").
	Device  string
	Timeout time.Duration
	Client  *http.Client
	Logger  zerolog.Logger
}

// Annotator implements annotate.Annotator over HTTP.
type Annotator struct {
	endpoint string
	model    string
	device   string
	client   *http.Client
	timeout  time.Duration
	log      zerolog.Logger
}

// New constructs an Annotator. The endpoint must be an absolute http(s) URL.
func New(opts Options) (*Annotator, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("remote annotator: endpoint must be an http(s) URL, got %q", opts.Endpoint)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Annotator{
		endpoint: endpoint,
		model:    opts.Model,
		device:   opts.Device,
		client:   client,
		timeout:  timeout,
		log:      opts.Logger,
	}, nil
}

// Name implements annotate.Annotator.
func (a *Annotator) Name() string {
	if a.model != "" {
		return "remote-" + a.model
	}
	return "remote"
}

// Close implements annotate.Annotator.
func (a *Annotator) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

type request struct {
	Texts  []string `json:"texts"`
	Model  string   `json:"model,omitempty"`
	Device string   `json:"device,omitempty"`
}

type response struct {
	Documents []annotate.Document `json:"documents"`
}

// Annotate sends the batch in a single request.
func (a *Annotator) Annotate(ctx context.Context, texts []string) ([]annotate.Document, error) {
	body, err := json.Marshal(request{Texts: texts, Model: a.model, Device: a.device})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	a.log.Debug().Str("endpoint", a.endpoint).Int("texts", len(texts)).
		Str("first", util.Preview(firstText(texts), 60)).Msg("annotate request")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote annotator: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxResponseBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("remote annotator: read response: %w", err)
	}
	if len(raw) > maxResponseBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrInvalidResponse, maxResponseBytes)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote annotator: %s returned %s: %s", a.endpoint, resp.Status, strings.TrimSpace(string(raw)))
	}

	if err := validateResponse(raw); err != nil {
		return nil, err
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	for i := range parsed.Documents {
		if i < len(texts) {
			parsed.Documents[i].Text = texts[i]
		}
		if parsed.Documents[i].Entities == nil {
			parsed.Documents[i].Entities = []annotate.Entity{}
		}
		for _, e := range parsed.Documents[i].Entities {
			if err := e.Validate(); err != nil {
				return nil, fmt.Errorf("%w: document %d: %w", ErrInvalidResponse, i, err)
			}
		}
	}
	a.log.Debug().Int("documents", len(parsed.Documents)).Msg("annotate response")
	return parsed.Documents, nil
}

// validateResponse checks the payload against the document schema.
func validateResponse(raw []byte) error {
	result, err := gojsonschema.Validate(responseSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(details, "; "))
}

func firstText(texts []string) string {
	if len(texts) == 0 {
		return ""
	}
	return texts[0]
}
