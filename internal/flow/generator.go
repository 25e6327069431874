package flow

import (
	"context"
	"strings"
	"sync"

	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

// GeneratorState is a point-in-time copy of the generator flow.
type GeneratorState struct {
	Description string          `json:"description"`
	Status      Status          `json:"status"`
	Result      *models.Profile `json:"result,omitempty"`
	Notice      string          `json:"notice,omitempty"`
}

// GeneratorFlow turns a vertical description into an Ideal Customer Profile.
type GeneratorFlow struct {
	mu  sync.Mutex
	gw  ProfileRequester
	log *logger.Logger

	description string
	status      Status
	result      *models.Profile
	notice      string
}

func NewGeneratorFlow(gw ProfileRequester, log *logger.Logger) *GeneratorFlow {
	if log == nil {
		log = logger.NewNop()
	}
	return &GeneratorFlow{
		gw:     gw,
		log:    log.With("flow", "generator"),
		status: StatusIdle,
	}
}

// Submit generates a profile. On failure the previous result is kept and the
// gateway error is returned after the flow has moved to failed.
func (f *GeneratorFlow) Submit(ctx context.Context, description string) (models.Profile, error) {
	f.mu.Lock()
	if strings.TrimSpace(description) == "" {
		f.mu.Unlock()
		return models.Profile{}, ErrEmptyInput
	}
	if f.status == StatusPending {
		f.mu.Unlock()
		return models.Profile{}, ErrBusy
	}
	f.description = description
	f.status = StatusPending
	f.notice = ""
	f.mu.Unlock()

	profile, err := f.gw.RequestProfile(ctx, description)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = StatusFailed
		f.notice = NoticeProfileFailed
		f.log.Warn("generation failed", "error", err)
		return models.Profile{}, err
	}
	f.status = StatusDone
	f.result = &profile
	return profile.Clone(), nil
}

// Result returns a copy of the last generated profile.
func (f *GeneratorFlow) Result() (models.Profile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return models.Profile{}, false
	}
	return f.result.Clone(), true
}

func (f *GeneratorFlow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *GeneratorFlow) Snapshot() GeneratorState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := GeneratorState{
		Description: f.description,
		Status:      f.status,
		Notice:      f.notice,
	}
	if f.result != nil {
		r := f.result.Clone()
		st.Result = &r
	}
	return st
}
