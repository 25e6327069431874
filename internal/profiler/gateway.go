package profiler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
	"github.com/BerylCAtieno/gtm-studio/internal/observability"
)

// The only two failure kinds callers ever see. Causes are wrapped for logs, never branched on.
var (
	ErrProfileGenerationFailed  = errors.New("failed to generate ICP")
	ErrFeedbackGenerationFailed = errors.New("failed to generate feedback")
)

const (
	opProfile  = "request_profile"
	opFeedback = "request_feedback"
)

var (
	errEmptyResponse = errors.New("empty response body")
	errBlankField    = errors.New("blank required field")
)

// Gateway is the single choke point for model calls. Every response is validated
// against its schema before a typed value is built.
type Gateway struct {
	gen   Generator
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

type Option func(*Gateway)

// WithClock overrides the feedback timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithIDGenerator overrides how profile identifiers are issued.
func WithIDGenerator(newID func() string) Option {
	return func(g *Gateway) { g.newID = newID }
}

func NewGateway(gen Generator, log *logger.Logger, opts ...Option) *Gateway {
	if log == nil {
		log = logger.NewNop()
	}
	g := &Gateway{
		gen:   gen,
		log:   log.With("component", "gateway"),
		now:   time.Now,
		newID: models.NewID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RequestProfile synthesizes an Ideal Customer Profile for a vertical description.
// Callers filter blank descriptions; the gateway sends whatever it is given.
func (g *Gateway) RequestProfile(ctx context.Context, verticalDescription string) (models.Profile, error) {
	ctx, span := observability.Tracer().Start(ctx, "gateway.RequestProfile")
	defer span.End()
	start := time.Now()

	profile, err := g.requestProfile(ctx, verticalDescription)
	observability.ObserveGateway(opProfile, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "profile generation failed")
		g.log.Warn("ICP generation failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return models.Profile{}, fmt.Errorf("%w: %v", ErrProfileGenerationFailed, err)
	}

	span.SetAttributes(attribute.String("profile.id", profile.ID))
	g.log.Info("ICP generated", "profile_id", profile.ID, "role", profile.Role, "duration_ms", time.Since(start).Milliseconds())
	return profile, nil
}

func (g *Gateway) requestProfile(ctx context.Context, verticalDescription string) (models.Profile, error) {
	raw, err := g.gen.Generate(ctx, Request{
		SystemInstruction: profileSystemInstruction,
		Prompt:            buildProfilePrompt(verticalDescription),
		Schema:            ProfileSchema,
	})
	if err != nil {
		return models.Profile{}, err
	}

	var profile models.Profile
	if err := decode(raw, ProfileSchema, &profile); err != nil {
		return models.Profile{}, err
	}
	profile.Normalize()
	profile.Role = strings.TrimSpace(profile.Role)
	profile.CompanySize = strings.TrimSpace(profile.CompanySize)
	if profile.Role == "" {
		return models.Profile{}, fmt.Errorf("%w: role", errBlankField)
	}
	if profile.CompanySize == "" {
		return models.Profile{}, fmt.Errorf("%w: companySize", errBlankField)
	}
	// The schema never carries an id.
	profile.ID = g.newID()
	return profile, nil
}

// feedbackPayload accepts integral floats such as 45.0 for the score.
type feedbackPayload struct {
	Score          json.Number `json:"score"`
	Strengths      []string    `json:"strengths"`
	Weaknesses     []string    `json:"weaknesses"`
	Suggestions    []string    `json:"suggestions"`
	RevisedContent string      `json:"revisedContent"`
}

// RequestFeedback critiques content against a profile. A nil profile means a generic audience.
func (g *Gateway) RequestFeedback(ctx context.Context, content string, profile *models.Profile, assetType models.AssetType) (models.Feedback, error) {
	ctx, span := observability.Tracer().Start(ctx, "gateway.RequestFeedback")
	defer span.End()
	span.SetAttributes(attribute.String("asset.type", string(assetType)), attribute.Bool("profile.present", profile != nil))
	start := time.Now()

	fb, err := g.requestFeedback(ctx, content, profile, assetType)
	observability.ObserveGateway(opFeedback, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "feedback generation failed")
		g.log.Warn("feedback generation failed", "error", err, "asset_type", assetType, "duration_ms", time.Since(start).Milliseconds())
		return models.Feedback{}, fmt.Errorf("%w: %v", ErrFeedbackGenerationFailed, err)
	}

	span.SetAttributes(attribute.Int("feedback.score", fb.Score))
	g.log.Info("feedback generated", "score", fb.Score, "asset_type", assetType, "duration_ms", time.Since(start).Milliseconds())
	return fb, nil
}

func (g *Gateway) requestFeedback(ctx context.Context, content string, profile *models.Profile, assetType models.AssetType) (models.Feedback, error) {
	if assetType == "" {
		assetType = models.AssetCopy
	}
	raw, err := g.gen.Generate(ctx, Request{
		SystemInstruction: feedbackSystemInstruction,
		Prompt:            buildFeedbackPrompt(content, profile, assetType),
		Schema:            FeedbackSchema,
	})
	if err != nil {
		return models.Feedback{}, err
	}

	var payload feedbackPayload
	if err := decode(raw, FeedbackSchema, &payload); err != nil {
		return models.Feedback{}, err
	}
	score, err := payload.Score.Float64()
	if err != nil {
		return models.Feedback{}, fmt.Errorf("score: %w", err)
	}

	fb := models.Feedback{
		Score:          clampScore(score),
		Strengths:      payload.Strengths,
		Weaknesses:     payload.Weaknesses,
		Suggestions:    payload.Suggestions,
		RevisedContent: payload.RevisedContent,
		Timestamp:      g.now().UTC(),
	}
	fb.Normalize()
	return fb, nil
}

// clampScore rounds to an int, saturating at the int32 bounds so huge scores keep their sign.
func clampScore(score float64) int {
	switch {
	case math.IsNaN(score):
		return 0
	case score >= math.MaxInt32:
		return math.MaxInt32
	case score <= math.MinInt32:
		return math.MinInt32
	}
	return int(math.Round(score))
}

// decode validates raw against schema and unmarshals it into out.
func decode(raw string, schema Schema, out interface{}) error {
	body := []byte(stripFences(raw))
	if len(body) == 0 {
		return errEmptyResponse
	}
	if err := schema.Validate(body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", schema.Name, err)
	}
	return nil
}

// stripFences removes a markdown code fence the model sometimes adds despite JSON mode.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
