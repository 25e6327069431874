package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownAssetType = errors.New("unknown asset type")

// Feedback is the critique-and-rewrite produced for one piece of creative content.
type Feedback struct {
	Score          int       `json:"score"`
	Strengths      []string  `json:"strengths"`
	Weaknesses     []string  `json:"weaknesses"`
	Suggestions    []string  `json:"suggestions"`
	RevisedContent string    `json:"revisedContent,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func (f *Feedback) Normalize() {
	if f.Strengths == nil {
		f.Strengths = []string{}
	}
	if f.Weaknesses == nil {
		f.Weaknesses = []string{}
	}
	if f.Suggestions == nil {
		f.Suggestions = []string{}
	}
}

// HasRevision reports whether the model supplied a rewrite.
func (f Feedback) HasRevision() bool {
	return strings.TrimSpace(f.RevisedContent) != ""
}

// Band is the display tier for a 1-100 rating.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// ScoreBand buckets a score at 60 and 80. Values outside 1-100 are not rejected.
func ScoreBand(score int) Band {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 60:
		return BandMedium
	default:
		return BandLow
	}
}

// AssetType is the kind of creative asset being reviewed.
type AssetType string

const (
	AssetCopy        AssetType = "copy"
	AssetImagePrompt AssetType = "image_prompt"
	AssetValueProp   AssetType = "value_prop"
	AssetLandingPage AssetType = "landing_page"
)

func AssetTypes() []AssetType {
	return []AssetType{AssetCopy, AssetImagePrompt, AssetValueProp, AssetLandingPage}
}

// ParseAssetType accepts a wire name; an empty name means copy.
func ParseAssetType(name string) (AssetType, error) {
	if name == "" {
		return AssetCopy, nil
	}
	for _, t := range AssetTypes() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAssetType, name)
}

func (t AssetType) Label() string {
	switch t {
	case AssetCopy:
		return "Ad Copy / Email"
	case AssetImagePrompt:
		return "Image Generation Prompt"
	case AssetValueProp:
		return "Value Proposition"
	case AssetLandingPage:
		return "Landing Page Section"
	}
	return string(t)
}

// Next cycles through the asset types, wrapping around.
func (t AssetType) Next() AssetType {
	all := AssetTypes()
	for i, a := range all {
		if a == t {
			return all[(i+1)%len(all)]
		}
	}
	return AssetCopy
}
