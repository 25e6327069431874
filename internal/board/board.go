// Package board serves the read-only pipeline telemetry and the lead kanban.
// Both are baked into the binary as YAML.
package board

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

//go:embed data/*.yaml
var data embed.FS

type StatCard struct {
	Title  string `json:"title" yaml:"title"`
	Value  string `json:"value" yaml:"value"`
	Change string `json:"change" yaml:"change"`
}

// Point is one day of the weekly throughput series.
type Point struct {
	Name       string `json:"name" yaml:"name"`
	Engagement int    `json:"engagement" yaml:"engagement"`
	Feedback   int    `json:"feedback" yaml:"feedback"`
}

type Dashboard struct {
	Title    string     `json:"title" yaml:"title"`
	Subtitle string     `json:"subtitle" yaml:"subtitle"`
	Stats    []StatCard `json:"stats" yaml:"stats"`
	Series   []Point    `json:"series" yaml:"series"`
}

// MaxSeriesValue is the largest engagement or feedback value, used to scale charts.
func (d Dashboard) MaxSeriesValue() int {
	max := 0
	for _, p := range d.Series {
		if p.Engagement > max {
			max = p.Engagement
		}
		if p.Feedback > max {
			max = p.Feedback
		}
	}
	return max
}

type Column struct {
	Status models.LeadStatus `json:"status"`
	Title  string            `json:"title"`
	Leads  []models.Lead     `json:"leads"`
}

var (
	loadOnce  sync.Once
	dashboard Dashboard
	leads     []models.Lead
	loadErr   error
)

func load() error {
	loadOnce.Do(func() {
		var raw []byte
		raw, loadErr = data.ReadFile("data/dashboard.yaml")
		if loadErr != nil {
			return
		}
		if loadErr = yaml.Unmarshal(raw, &dashboard); loadErr != nil {
			loadErr = fmt.Errorf("parse dashboard.yaml: %w", loadErr)
			return
		}
		raw, loadErr = data.ReadFile("data/leads.yaml")
		if loadErr != nil {
			return
		}
		if loadErr = yaml.Unmarshal(raw, &leads); loadErr != nil {
			loadErr = fmt.Errorf("parse leads.yaml: %w", loadErr)
		}
	})
	return loadErr
}

// LoadDashboard returns the stat cards and weekly series.
func LoadDashboard() (Dashboard, error) {
	if err := load(); err != nil {
		return Dashboard{}, err
	}
	d := dashboard
	d.Stats = append([]StatCard(nil), dashboard.Stats...)
	d.Series = append([]Point(nil), dashboard.Series...)
	return d, nil
}

// Leads returns every lead in file order.
func Leads() ([]models.Lead, error) {
	if err := load(); err != nil {
		return nil, err
	}
	return append([]models.Lead(nil), leads...), nil
}

// Board groups the leads into the four kanban columns. Every column is
// present even when empty.
func Board() ([]Column, error) {
	all, err := Leads()
	if err != nil {
		return nil, err
	}
	cols := make([]Column, 0, len(models.LeadStatuses()))
	for _, st := range models.LeadStatuses() {
		col := Column{Status: st, Title: st.Title(), Leads: []models.Lead{}}
		for _, l := range all {
			if l.Status == st {
				col.Leads = append(col.Leads, l)
			}
		}
		cols = append(cols, col)
	}
	return cols, nil
}
