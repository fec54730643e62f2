package enums

import "fmt"

// LeadStatus tracks a business lead through the sales pipeline.
type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "new"
	LeadStatusContacted    LeadStatus = "contacted"
	LeadStatusQualified    LeadStatus = "qualified"
	LeadStatusProposalSent LeadStatus = "proposal_sent"
	LeadStatusWon          LeadStatus = "won"
	LeadStatusLost         LeadStatus = "lost"
)

var validLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusProposalSent,
	LeadStatusWon,
	LeadStatusLost,
}

// Lost is reachable from every non-terminal stage.
var leadTransitions = map[LeadStatus][]LeadStatus{
	LeadStatusNew:          {LeadStatusContacted, LeadStatusLost},
	LeadStatusContacted:    {LeadStatusQualified, LeadStatusLost},
	LeadStatusQualified:    {LeadStatusProposalSent, LeadStatusLost},
	LeadStatusProposalSent: {LeadStatusWon, LeadStatusLost},
	LeadStatusWon:          {},
	LeadStatusLost:         {},
}

// String implements fmt.Stringer.
func (l LeadStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LeadStatus.
func (l LeadStatus) IsValid() bool {
	for _, candidate := range validLeadStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the pipeline has ended for this lead.
func (l LeadStatus) IsTerminal() bool {
	return l == LeadStatusWon || l == LeadStatusLost
}

// CanTransitionTo reports whether the transition is listed in the allowed table.
func (l LeadStatus) CanTransitionTo(target LeadStatus) bool {
	for _, candidate := range leadTransitions[l] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseLeadStatus converts raw input into a LeadStatus.
func ParseLeadStatus(value string) (LeadStatus, error) {
	for _, candidate := range validLeadStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lead status %q", value)
}
