package flow

import (
	"fmt"
	"sync"

	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

// View selects which screen is active.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewGenerator View = "icp_generator"
	ViewCreative  View = "creative_loop"
	ViewCRM       View = "crm"
)

// Views returns the views in sidebar order.
func Views() []View {
	return []View{ViewDashboard, ViewGenerator, ViewCreative, ViewCRM}
}

func ParseView(name string) (View, error) {
	for _, v := range Views() {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// Label is the sidebar caption.
func (v View) Label() string {
	switch v {
	case ViewDashboard:
		return "Pulse"
	case ViewGenerator:
		return "Prism (ICP)"
	case ViewCreative:
		return "Echo (Creative)"
	case ViewCRM:
		return "Flux (CRM)"
	}
	return string(v)
}

const noContext = "GLOBAL_NULL"

// ShellState is what a client needs to render the whole dashboard.
type ShellState struct {
	View      View            `json:"view"`
	Context   string          `json:"context"`
	Selection *models.Profile `json:"selection,omitempty"`
	Generator GeneratorState  `json:"generator"`
	Creative  CreativeState   `json:"creative"`
}

// Shell owns the one piece of cross-screen state: the selected profile.
// Only SelectProfile writes it, taking the value from the generator flow.
type Shell struct {
	mu        sync.RWMutex
	view      View
	selection *models.Profile
	revision  uint64

	Generator *GeneratorFlow
	Creative  *CreativeFlow
}

func NewShell(gw Gateway, log *logger.Logger) *Shell {
	return &Shell{
		view:      ViewDashboard,
		Generator: NewGeneratorFlow(gw, log),
		Creative:  NewCreativeFlow(gw, log),
	}
}

func (s *Shell) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Navigate switches the active view. Entering the creative view hands it the current selection.
func (s *Shell) Navigate(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
	if v == ViewCreative {
		s.Creative.Enter(s.selection, s.revision)
	}
}

// SelectProfile publishes the generator's result and opens the creative view.
func (s *Shell) SelectProfile() (models.Profile, error) {
	result, ok := s.Generator.Result()
	if !ok {
		return models.Profile{}, ErrNoResult
	}
	s.publish(result)
	s.Navigate(ViewCreative)
	return result, nil
}

func (s *Shell) publish(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = &p
	s.revision++
}

// Selection returns a copy of the selected profile and its publish counter.
func (s *Shell) Selection() (*models.Profile, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection == nil {
		return nil, s.revision
	}
	p := s.selection.Clone()
	return &p, s.revision
}

// PipelineContext is the status-bar caption: the selected role, or GLOBAL_NULL.
func (s *Shell) PipelineContext() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection == nil {
		return noContext
	}
	return s.selection.Role
}

func (s *Shell) Snapshot() ShellState {
	sel, _ := s.Selection()
	return ShellState{
		View:      s.View(),
		Context:   s.PipelineContext(),
		Selection: sel,
		Generator: s.Generator.Snapshot(),
		Creative:  s.Creative.Snapshot(),
	}
}
