package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBand(t *testing.T) {
	cases := map[int]Band{
		-5:  BandLow,
		0:   BandLow,
		45:  BandLow,
		59:  BandLow,
		60:  BandMedium,
		79:  BandMedium,
		80:  BandHigh,
		100: BandHigh,
		250: BandHigh,
	}
	for score, want := range cases {
		assert.Equal(t, want, ScoreBand(score), "score %d", score)
	}
}

func TestParseAssetType(t *testing.T) {
	got, err := ParseAssetType("")
	require.NoError(t, err)
	assert.Equal(t, AssetCopy, got)

	got, err = ParseAssetType("landing_page")
	require.NoError(t, err)
	assert.Equal(t, AssetLandingPage, got)
	assert.Equal(t, "Landing Page Section", got.Label())

	_, err = ParseAssetType("email")
	assert.ErrorIs(t, err, ErrUnknownAssetType)
}

func TestAssetTypeNextWraps(t *testing.T) {
	assert.Equal(t, AssetImagePrompt, AssetCopy.Next())
	assert.Equal(t, AssetCopy, AssetLandingPage.Next())
}

func TestFeedbackHasRevision(t *testing.T) {
	assert.False(t, Feedback{}.HasRevision())
	assert.False(t, Feedback{RevisedContent: "  "}.HasRevision())
	assert.True(t, Feedback{RevisedContent: "Cut approval delays"}.HasRevision())
}

func TestLeadSentimentBand(t *testing.T) {
	assert.Equal(t, BandHigh, Lead{Sentiment: 95}.SentimentBand())
	assert.Equal(t, BandMedium, Lead{Sentiment: 60}.SentimentBand())
	assert.Equal(t, BandMedium, Lead{Sentiment: 45}.SentimentBand())
	assert.Equal(t, BandMedium, Lead{Sentiment: 41}.SentimentBand())
	assert.Equal(t, BandLow, Lead{Sentiment: 40}.SentimentBand())
	assert.Equal(t, BandMedium, Lead{Sentiment: 70}.SentimentBand())
	assert.Equal(t, BandHigh, Lead{Sentiment: 71}.SentimentBand())
}
