package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrIndexOutOfRange  = errors.New("list index out of range")
	ErrUnknownListField = errors.New("unknown list field")
)

// Profile is an Ideal Customer Profile: the target buyer that steers feedback generation.
type Profile struct {
	ID                string   `json:"id"`
	Role              string   `json:"role"`
	CompanySize       string   `json:"companySize"`
	PainPoints        []string `json:"painPoints"`
	Goals             []string `json:"goals"`
	BuyingTriggers    []string `json:"buyingTriggers"`
	PreferredChannels []string `json:"preferredChannels"`
	TechStack         []string `json:"techStack"`
}

// NewProfile returns an empty profile with a fresh identifier.
func NewProfile() Profile {
	p := Profile{ID: NewID()}
	p.Normalize()
	return p
}

// NewID issues an opaque profile identifier.
func NewID() string {
	return uuid.NewString()
}

// Normalize replaces nil lists with empty ones so callers can always iterate.
func (p *Profile) Normalize() {
	for _, f := range ListFields() {
		if *p.list(f) == nil {
			*p.list(f) = []string{}
		}
	}
}

// Clone returns a deep copy; list edits on the copy never reach the original.
func (p Profile) Clone() Profile {
	out := p
	for _, f := range ListFields() {
		src := *p.list(f)
		dst := make([]string, len(src))
		copy(dst, src)
		*out.list(f) = dst
	}
	return out
}

// ListField names one of the five ordered list fields of a Profile.
type ListField string

const (
	FieldPainPoints        ListField = "painPoints"
	FieldGoals             ListField = "goals"
	FieldBuyingTriggers    ListField = "buyingTriggers"
	FieldPreferredChannels ListField = "preferredChannels"
	FieldTechStack         ListField = "techStack"
)

// ListFields returns the list fields in display order.
func ListFields() []ListField {
	return []ListField{FieldPainPoints, FieldGoals, FieldBuyingTriggers, FieldPreferredChannels, FieldTechStack}
}

// ParseListField maps a wire name to a ListField.
func ParseListField(name string) (ListField, error) {
	for _, f := range ListFields() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownListField, name)
}

// Label is the heading shown next to the list.
func (f ListField) Label() string {
	switch f {
	case FieldPainPoints:
		return "Pain Points"
	case FieldGoals:
		return "Professional Goals"
	case FieldBuyingTriggers:
		return "Buying Triggers"
	case FieldPreferredChannels:
		return "Preferred Channels"
	case FieldTechStack:
		return "Tech Stack"
	}
	return string(f)
}

func (p *Profile) list(f ListField) *[]string {
	switch f {
	case FieldPainPoints:
		return &p.PainPoints
	case FieldGoals:
		return &p.Goals
	case FieldBuyingTriggers:
		return &p.BuyingTriggers
	case FieldPreferredChannels:
		return &p.PreferredChannels
	case FieldTechStack:
		return &p.TechStack
	}
	panic(fmt.Sprintf("models: unknown list field %q", string(f)))
}

// Items returns the list stored under f.
func (p *Profile) Items(f ListField) []string {
	return *p.list(f)
}

// AddItem appends the trimmed value. Blank values are ignored and reported as not added.
func (p *Profile) AddItem(f ListField, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	items := p.list(f)
	*items = append(*items, value)
	return true
}

// RemoveItem deletes the element at index, keeping the order of the others.
func (p *Profile) RemoveItem(f ListField, index int) error {
	items := p.list(f)
	if index < 0 || index >= len(*items) {
		return fmt.Errorf("%w: remove %d from %s (len %d)", ErrIndexOutOfRange, index, f, len(*items))
	}
	out := make([]string, 0, len(*items)-1)
	out = append(out, (*items)[:index]...)
	out = append(out, (*items)[index+1:]...)
	*items = out
	return nil
}

// ReorderItem moves the element at from so that it ends up at position to.
func (p *Profile) ReorderItem(f ListField, from, to int) error {
	items := p.list(f)
	n := len(*items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d to %d in %s (len %d)", ErrIndexOutOfRange, from, to, f, n)
	}
	if from == to {
		return nil
	}
	moved := (*items)[from]
	rest := make([]string, 0, n)
	rest = append(rest, (*items)[:from]...)
	rest = append(rest, (*items)[from+1:]...)

	out := make([]string, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	*items = out
	return nil
}

// Markdown renders the profile as a card for chat surfaces and the terminal dashboard.
func (p Profile) Markdown() string {
	var builder strings.Builder

	role := p.Role
	if role == "" {
		role = "Untitled profile"
	}
	builder.WriteString(fmt.Sprintf("# %s\n\n", role))
	if p.CompanySize != "" {
		builder.WriteString(fmt.Sprintf("_@%s Companies_\n", p.CompanySize))
	}

	for _, f := range ListFields() {
		items := *p.list(f)
		if len(items) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("\n**%s:**\n", f.Label()))
		for _, item := range items {
			builder.WriteString(fmt.Sprintf("- %s\n", strings.TrimSpace(item)))
		}
	}

	return builder.String()
}
