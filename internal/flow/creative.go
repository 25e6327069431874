package flow

import (
	"context"
	"strings"
	"sync"

	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

// CreativeState is a point-in-time copy of the creative feedback flow.
type CreativeState struct {
	Content        string           `json:"content"`
	AssetType      models.AssetType `json:"assetType"`
	WorkingProfile models.Profile   `json:"workingProfile"`
	Status         Status           `json:"status"`
	Feedback       *models.Feedback `json:"feedback,omitempty"`
	Band           models.Band      `json:"band,omitempty"`
	Notice         string           `json:"notice,omitempty"`
}

// CreativeFlow runs the content → feedback → revised content loop against a
// locally editable copy of the selected profile.
type CreativeFlow struct {
	mu  sync.Mutex
	gw  FeedbackRequester
	log *logger.Logger

	content   string
	assetType models.AssetType
	working   models.Profile
	adopted   uint64
	status    Status
	feedback  *models.Feedback
	notice    string
}

func NewCreativeFlow(gw FeedbackRequester, log *logger.Logger) *CreativeFlow {
	if log == nil {
		log = logger.NewNop()
	}
	return &CreativeFlow{
		gw:        gw,
		log:       log.With("flow", "creative"),
		assetType: models.AssetCopy,
		working:   models.NewProfile(),
		status:    StatusIdle,
	}
}

// Enter adopts the published selection when it changed since the last adoption.
// Local edits survive re-entry while the selection stays the same.
func (f *CreativeFlow) Enter(selection *models.Profile, revision uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if selection == nil || revision == f.adopted {
		return
	}
	f.working = selection.Clone()
	f.working.Normalize()
	f.adopted = revision
}

func (f *CreativeFlow) SetContent(content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = content
}

func (f *CreativeFlow) SetAssetType(t models.AssetType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t == "" {
		t = models.AssetCopy
	}
	f.assetType = t
}

// UpdateProfile edits the scalar fields of the working profile; nil leaves a field alone.
func (f *CreativeFlow) UpdateProfile(role, companySize *string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if role != nil {
		f.working.Role = *role
	}
	if companySize != nil {
		f.working.CompanySize = *companySize
	}
}

func (f *CreativeFlow) AddItem(field models.ListField, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.working.AddItem(field, value)
}

func (f *CreativeFlow) RemoveItem(field models.ListField, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.working.RemoveItem(field, index)
}

func (f *CreativeFlow) ReorderItem(field models.ListField, from, to int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.working.ReorderItem(field, from, to)
}

// Analyze requests feedback for the current content. On failure the previous
// feedback is kept and the gateway error is returned.
func (f *CreativeFlow) Analyze(ctx context.Context) (models.Feedback, error) {
	f.mu.Lock()
	if strings.TrimSpace(f.content) == "" {
		f.mu.Unlock()
		return models.Feedback{}, ErrEmptyInput
	}
	if f.status == StatusPending {
		f.mu.Unlock()
		return models.Feedback{}, ErrBusy
	}
	content := f.content
	assetType := f.assetType
	profile := f.working.Clone()
	f.status = StatusPending
	f.notice = ""
	f.mu.Unlock()

	fb, err := f.gw.RequestFeedback(ctx, content, &profile, assetType)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.status = StatusFailed
		f.notice = NoticeAnalysisFailed
		f.log.Warn("analysis failed", "error", err, "asset_type", assetType)
		return models.Feedback{}, err
	}
	f.status = StatusDone
	f.feedback = &fb
	return fb, nil
}

// ApplyRevision replaces the content with the suggested rewrite and clears the
// feedback so another round can start immediately.
func (f *CreativeFlow) ApplyRevision() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == StatusPending {
		return ErrBusy
	}
	if f.feedback == nil || !f.feedback.HasRevision() {
		return ErrNoRevision
	}
	f.content = f.feedback.RevisedContent
	f.feedback = nil
	f.status = StatusIdle
	f.notice = ""
	return nil
}

func (f *CreativeFlow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *CreativeFlow) Snapshot() CreativeState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := CreativeState{
		Content:        f.content,
		AssetType:      f.assetType,
		WorkingProfile: f.working.Clone(),
		Status:         f.status,
		Notice:         f.notice,
	}
	if f.feedback != nil {
		fb := *f.feedback
		st.Feedback = &fb
		st.Band = models.ScoreBand(fb.Score)
	}
	return st
}
