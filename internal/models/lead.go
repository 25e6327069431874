package models

// LeadStatus is the kanban column a lead sits in.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadClosed    LeadStatus = "closed"
)

func LeadStatuses() []LeadStatus {
	return []LeadStatus{LeadNew, LeadContacted, LeadQualified, LeadClosed}
}

type Lead struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Company   string     `json:"company" yaml:"company"`
	Status    LeadStatus `json:"status" yaml:"status"`
	Vertical  string     `json:"vertical" yaml:"vertical"`
	Sentiment int        `json:"sentiment" yaml:"sentiment"`
}

// SentimentBand colours the lead card dot: above 70 high, above 40 medium.
func (l Lead) SentimentBand() Band {
	switch {
	case l.Sentiment > 70:
		return BandHigh
	case l.Sentiment > 40:
		return BandMedium
	default:
		return BandLow
	}
}

// Title is the kanban column heading for the status.
func (s LeadStatus) Title() string {
	switch s {
	case LeadNew:
		return "New Flux"
	case LeadContacted:
		return "Contacted"
	case LeadQualified:
		return "Qualified"
	case LeadClosed:
		return "Closed Won"
	}
	return string(s)
}
