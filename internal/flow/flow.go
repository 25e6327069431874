// Package flow holds the screen-level state machines: the ICP generator, the
// creative feedback loop, and the shell that routes between views and carries
// the selected profile from one to the other.
package flow

import (
	"context"
	"errors"

	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

// Status is the request lifecycle of a flow.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

var (
	ErrEmptyInput  = errors.New("input is empty")
	ErrBusy        = errors.New("a request is already in flight")
	ErrNoResult    = errors.New("no generated profile to select")
	ErrNoRevision  = errors.New("feedback has no revised content")
	ErrUnknownView = errors.New("unknown view")
)

// Notices shown to the user when a gateway call fails.
const (
	NoticeProfileFailed  = "Failed to generate ICP."
	NoticeAnalysisFailed = "Analysis failed."
)

type ProfileRequester interface {
	RequestProfile(ctx context.Context, verticalDescription string) (models.Profile, error)
}

type FeedbackRequester interface {
	RequestFeedback(ctx context.Context, content string, profile *models.Profile, assetType models.AssetType) (models.Feedback, error)
}

// Gateway is everything the flows need from the model gateway.
type Gateway interface {
	ProfileRequester
	FeedbackRequester
}
