// Package assistant runs the AI-backed operations on a resume: structuring
// an uploaded document and tailoring the resume to a job description. Both
// validate the model's reply before it reaches the store and leave the store
// untouched on any failure.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/locale"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// Operation names used in errors and logs.
const (
	OpExtract  = "extract"
	OpParse    = "parse"
	OpOptimize = "optimize"
	// OpImport is a job posting import performed before an optimization.
	OpImport = "import"
)

// Service orchestrates extraction, the LLM call, validation and the merge.
type Service struct {
	newClient  llm.Factory
	defaultKey string
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service. defaultKey is used when a request carries no key.
func New(factory llm.Factory, defaultKey string, opts ...Option) *Service {
	s := &Service{
		newClient:  factory,
		defaultKey: strings.TrimSpace(defaultKey),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OptimizeInput is a request to tailor the resume to a job.
type OptimizeInput struct {
	JobDescription string
	Locale         locale.Locale
	// APIKey overrides the configured key when set.
	APIKey string
}

// ParseInput is an uploaded document to be structured into the resume.
type ParseInput struct {
	Data     []byte
	MimeType string
	FileName string
	Locale   locale.Locale
	APIKey   string
}

// Optimize rewrites the session's resume for the job description and loads
// the validated result into st.
func (s *Service) Optimize(ctx context.Context, st *store.Store, in OptimizeInput) (*types.Resume, error) {
	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, &InputError{Field: "job_description", Message: "a job description is required"}
	}
	key, err := s.resolveKey(in.APIKey)
	if err != nil {
		return nil, err
	}

	current := st.Resume()
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to encode current resume: %w", err)
	}

	req := llm.Request{
		System: prompts.Format(prompts.MustGet(prompts.ResumeFile, prompts.KeyOptimizeSystem), map[string]string{
			"Language": locale.LanguageName(in.Locale),
			"Schema":   schemas.ResumeSchemaJSON(),
		}),
		Prompt: prompts.Format(prompts.MustGet(prompts.ResumeFile, prompts.KeyOptimizeUser), map[string]string{
			"JobDescription": s.guardExternal(ctx, "job posting", strings.TrimSpace(in.JobDescription)),
			"ResumeJSON":     string(currentJSON),
		}),
		Tier: llm.TierAdvanced,
	}

	return s.generateAndLoad(ctx, st, OpOptimize, key, req)
}

// ParseDocument extracts the text of an uploaded PDF or DOCX file, has it
// structured by the model and loads the validated result into st.
func (s *Service) ParseDocument(ctx context.Context, st *store.Store, in ParseInput) (*types.Resume, error) {
	if _, err := ingestion.ResolveType(in.Data, in.MimeType, in.FileName); err != nil {
		return nil, err
	}
	key, err := s.resolveKey(in.APIKey)
	if err != nil {
		return nil, err
	}

	text, err := ingestion.ExtractText(ctx, in.Data, in.MimeType, in.FileName)
	if err != nil {
		var unsupported *ingestion.UnsupportedInputError
		if errors.As(err, &unsupported) {
			return nil, err
		}
		return nil, &CollaboratorError{Op: OpExtract, Message: "could not extract text from the document", Cause: err}
	}

	meta := ingestion.NewMetadata(text, in.FileName, in.MimeType)
	s.logger.InfoContext(ctx, "extracted document text", meta.LogAttrs()...)

	return s.parse(ctx, st, text, in.Locale, key)
}

// ParseText structures already-extracted resume text and loads the
// validated result into st.
func (s *Service) ParseText(ctx context.Context, st *store.Store, text string, loc locale.Locale, apiKey string) (*types.Resume, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &InputError{Field: "text", Message: "resume text is empty"}
	}
	key, err := s.resolveKey(apiKey)
	if err != nil {
		return nil, err
	}
	return s.parse(ctx, st, text, loc, key)
}

func (s *Service) parse(ctx context.Context, st *store.Store, text string, loc locale.Locale, key string) (*types.Resume, error) {
	req := llm.Request{
		System: prompts.Format(prompts.MustGet(prompts.ResumeFile, prompts.KeyParseSystem), map[string]string{
			"Language": locale.LanguageName(loc),
			"Schema":   schemas.ResumeSchemaJSON(),
		}),
		Prompt: prompts.Format(prompts.MustGet(prompts.ResumeFile, prompts.KeyParseUser), map[string]string{
			"ResumeText": s.guardExternal(ctx, "resume text", text),
		}),
		Tier: llm.TierStandard,
	}
	return s.generateAndLoad(ctx, st, OpParse, key, req)
}

// generateAndLoad performs the model call and, only if the reply validates,
// exactly one LoadResume.
func (s *Service) generateAndLoad(ctx context.Context, st *store.Store, op, key string, req llm.Request) (*types.Resume, error) {
	client, err := s.newClient(ctx, key)
	if err != nil {
		return nil, &CollaboratorError{Op: op, Message: "could not create AI client", Cause: err}
	}
	defer func() { _ = client.Close() }()

	start := time.Now()
	reply, err := client.GenerateJSON(ctx, req)
	if err != nil {
		s.logger.WarnContext(ctx, "AI request failed", "op", op, "model", client.GetModel(req.Tier), "error", err)
		return nil, &CollaboratorError{Op: op, Message: "AI request failed", Cause: err}
	}
	s.logger.InfoContext(ctx, "AI request completed", "op", op, "model", client.GetModel(req.Tier),
		"duration_ms", time.Since(start).Milliseconds(), "reply_bytes", len(reply))

	var raw map[string]any
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(reply)), &raw); err != nil || raw == nil {
		return nil, &CollaboratorError{Op: op, Message: "AI reply is not a JSON object", Cause: err}
	}

	validated, err := schemas.ValidateResumeValue(completeCandidate(raw, st.Resume()))
	if err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			s.logger.WarnContext(ctx, "AI reply failed validation", "op", op, "violations", len(verr.Errors))
		}
		return nil, err
	}

	st.LoadResume(types.CandidateFromResume(*validated))
	return validated, nil
}

func (s *Service) resolveKey(requestKey string) (string, error) {
	if k := strings.TrimSpace(requestKey); k != "" {
		return k, nil
	}
	if s.defaultKey != "" {
		return s.defaultKey, nil
	}
	return "", &MissingCredentialError{}
}
