package flow

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/gtm-studio/internal/logger/loggertest"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

func TestCreativeScenarioLowScoreRevision(t *testing.T) {
	gw := &fakeGateway{feedback: lowScore()}
	f := NewCreativeFlow(gw, loggertest.New(t))

	require.True(t, f.AddItem(models.FieldPainPoints, "slow approvals"))
	f.SetContent("Buy our tool now")

	fb, err := f.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 45, fb.Score)

	st := f.Snapshot()
	assert.Equal(t, StatusDone, st.Status)
	assert.Equal(t, models.BandLow, st.Band)
	require.Len(t, gw.feedbacks, 1)
	call := gw.feedbacks[0]
	assert.Equal(t, "Buy our tool now", call.content)
	assert.Equal(t, models.AssetCopy, call.assetType)
	require.NotNil(t, call.profile)
	assert.Equal(t, []string{"slow approvals"}, call.profile.PainPoints)

	require.NoError(t, f.ApplyRevision())
	st = f.Snapshot()
	assert.Equal(t, "Cut approval delays with our tool", st.Content)
	assert.Nil(t, st.Feedback)
	assert.Equal(t, StatusIdle, st.Status)
}

func TestCreativeAnalyzeImmediatelyAfterRevision(t *testing.T) {
	gw := &fakeGateway{feedback: lowScore()}
	f := NewCreativeFlow(gw, nil)
	f.SetContent("v1")

	_, err := f.Analyze(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.ApplyRevision())

	_, err = f.Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, gw.feedbacks, 2)
	assert.Equal(t, "Cut approval delays with our tool", gw.feedbacks[1].content)
}

func TestCreativeApplyRevisionWithoutRevision(t *testing.T) {
	fb := lowScore()
	fb.RevisedContent = ""
	gw := &fakeGateway{feedback: fb}
	f := NewCreativeFlow(gw, nil)

	assert.ErrorIs(t, f.ApplyRevision(), ErrNoRevision)

	f.SetContent("copy")
	_, err := f.Analyze(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, f.ApplyRevision(), ErrNoRevision)
	assert.Equal(t, "copy", f.Snapshot().Content)
}

func TestCreativeRejectsBlankContent(t *testing.T) {
	gw := &fakeGateway{feedback: lowScore()}
	f := NewCreativeFlow(gw, nil)
	f.SetContent("  ")

	_, err := f.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, StatusIdle, f.Status())
	assert.Empty(t, gw.feedbacks)
}

func TestCreativeFailureKeepsPreviousFeedback(t *testing.T) {
	gw := &fakeGateway{feedback: lowScore()}
	f := NewCreativeFlow(gw, loggertest.New(t))
	f.SetContent("copy")

	_, err := f.Analyze(context.Background())
	require.NoError(t, err)
	before := f.Snapshot()

	gw.setErr(errUpstream)
	_, err = f.Analyze(context.Background())
	require.Error(t, err)

	after := f.Snapshot()
	assert.Equal(t, StatusFailed, after.Status)
	assert.Equal(t, NoticeAnalysisFailed, after.Notice)
	assert.Equal(t, before.Feedback, after.Feedback)
	assert.Equal(t, before.Content, after.Content)
}

func TestCreativeBusyWhilePending(t *testing.T) {
	gw := &fakeGateway{
		feedback: lowScore(),
		block:    make(chan struct{}),
		started:  make(chan struct{}),
	}
	f := NewCreativeFlow(gw, nil)
	f.SetContent("copy")

	done := make(chan error, 1)
	go func() {
		_, err := f.Analyze(context.Background())
		done <- err
	}()
	<-gw.started

	_, err := f.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, f.ApplyRevision(), ErrBusy)

	close(gw.block)
	require.NoError(t, <-done)
}

func TestCreativeEnterAdoptsOnlyNewSelections(t *testing.T) {
	f := NewCreativeFlow(&fakeGateway{}, nil)
	sel := complianceOfficer()

	f.Enter(&sel, 1)
	require.True(t, f.AddItem(models.FieldGoals, "audit trail"))

	// Same revision: local edits survive.
	f.Enter(&sel, 1)
	assert.Equal(t, []string{"faster approvals", "audit trail"}, f.Snapshot().WorkingProfile.Goals)

	// Mutating the caller's copy never reaches the working profile.
	sel.Goals[0] = "changed"
	assert.Equal(t, "faster approvals", f.Snapshot().WorkingProfile.Goals[0])

	next := complianceOfficer()
	next.Role = "CFO"
	f.Enter(&next, 2)
	assert.Equal(t, "CFO", f.Snapshot().WorkingProfile.Role)
	assert.Equal(t, []string{"faster approvals"}, f.Snapshot().WorkingProfile.Goals)
}

func TestCreativeEnterWithoutSelectionKeepsEmptyProfile(t *testing.T) {
	f := NewCreativeFlow(&fakeGateway{}, nil)
	f.Enter(nil, 0)

	wp := f.Snapshot().WorkingProfile
	assert.Empty(t, wp.Role)
	for _, field := range models.ListFields() {
		assert.NotNil(t, wp.Items(field))
	}
}

func TestCreativeProfileEdits(t *testing.T) {
	f := NewCreativeFlow(&fakeGateway{}, nil)
	sel := complianceOfficer()
	sel.TechStack = []string{"Jira", "Slack", "Notion"}
	f.Enter(&sel, 1)

	role := "Head of Compliance"
	f.UpdateProfile(&role, nil)
	require.NoError(t, f.ReorderItem(models.FieldTechStack, 2, 0))
	require.NoError(t, f.RemoveItem(models.FieldTechStack, 1))
	assert.ErrorIs(t, f.RemoveItem(models.FieldTechStack, 5), models.ErrIndexOutOfRange)
	assert.False(t, f.AddItem(models.FieldTechStack, "   "))

	wp := f.Snapshot().WorkingProfile
	assert.Equal(t, "Head of Compliance", wp.Role)
	assert.Equal(t, "SMB", wp.CompanySize)
	if diff := cmp.Diff([]string{"Notion", "Slack"}, wp.TechStack); diff != "" {
		t.Errorf("tech stack mismatch (-want +got):\n%s", diff)
	}
}

func TestCreativeAssetType(t *testing.T) {
	gw := &fakeGateway{feedback: lowScore()}
	f := NewCreativeFlow(gw, nil)
	assert.Equal(t, models.AssetCopy, f.Snapshot().AssetType)

	f.SetAssetType(models.AssetLandingPage)
	f.SetContent("hero section")
	_, err := f.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AssetLandingPage, gw.feedbacks[0].assetType)

	f.SetAssetType("")
	assert.Equal(t, models.AssetCopy, f.Snapshot().AssetType)
}
