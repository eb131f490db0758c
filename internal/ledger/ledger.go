// Package ledger tracks the version chain of a proposal and derives the
// contract amounts downstream reconciliation consumes.
package ledger

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Simplici0/bidcost/internal/numeric"
)

var (
	// ErrProposalMismatch is returned when a version belongs to another proposal.
	ErrProposalMismatch = errors.New("version belongs to a different proposal")
	// ErrDuplicateVersion is returned when a version number is already present.
	ErrDuplicateVersion = errors.New("version number already recorded")
)

// Outcomes that commit a change order to the contract.
const (
	StatusCompleted = "completed"
	StatusWon       = "won"
)

// EstimateVersion is an immutable reference to one estimate document in a
// proposal's chain.
type EstimateVersion struct {
	ID            string    `json:"id"`
	ProposalNo    string    `json:"proposalNo"`
	VersionNumber int       `json:"versionNumber"`
	Date          time.Time `json:"date"`
	TotalAmount   float64   `json:"totalAmount"`
	IsChangeOrder bool      `json:"isChangeOrder"`
	Status        string    `json:"status,omitempty"`
}

// Committed reports whether the version's status counts toward reporting.
func (v EstimateVersion) Committed() bool {
	switch strings.ToLower(strings.TrimSpace(v.Status)) {
	case StatusCompleted, StatusWon:
		return true
	}
	return false
}

// Reconciliation is the per-proposal view handed to accounting.
type Reconciliation struct {
	ProposalNo        string  `json:"proposalNo"`
	OriginalContract  float64 `json:"originalContract"`
	ChangeOrdersTotal float64 `json:"changeOrdersTotal"`
	ContractTotal     float64 `json:"contractTotal"`
}

// Ledger holds the versions of one proposal sorted by version number.
type Ledger struct {
	proposalNo string
	versions   []EstimateVersion
}

// New builds a ledger for proposalNo from versions in any order.
func New(proposalNo string, versions ...EstimateVersion) (*Ledger, error) {
	l := &Ledger{proposalNo: proposalNo}
	for _, v := range versions {
		if err := l.Add(v); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// ProposalNo returns the proposal number the ledger tracks.
func (l *Ledger) ProposalNo() string { return l.proposalNo }

// Add records a version, keeping the chain ordered.
func (l *Ledger) Add(v EstimateVersion) error {
	if v.ProposalNo != l.proposalNo {
		return eris.Wrapf(ErrProposalMismatch, "ledger %s: version %s has proposal %s", l.proposalNo, v.ID, v.ProposalNo)
	}
	i, found := slices.BinarySearchFunc(l.versions, v.VersionNumber, func(e EstimateVersion, n int) int {
		return e.VersionNumber - n
	})
	if found {
		return eris.Wrapf(ErrDuplicateVersion, "ledger %s: version %d", l.proposalNo, v.VersionNumber)
	}
	l.versions = slices.Insert(l.versions, i, v)
	return nil
}

// Versions returns a copy of the chain in ascending version order.
func (l *Ledger) Versions() []EstimateVersion {
	return slices.Clone(l.versions)
}

// Len returns the number of versions.
func (l *Ledger) Len() int { return len(l.versions) }

// Latest returns the highest-numbered version, change order or not.
func (l *Ledger) Latest() (EstimateVersion, bool) {
	if len(l.versions) == 0 {
		return EstimateVersion{}, false
	}
	return l.versions[len(l.versions)-1], true
}

// LatestOriginal returns the highest-numbered version that is not a
// change order.
func (l *Ledger) LatestOriginal() (EstimateVersion, bool) {
	for i := len(l.versions) - 1; i >= 0; i-- {
		if !l.versions[i].IsChangeOrder {
			return l.versions[i], true
		}
	}
	return EstimateVersion{}, false
}

// NextVersionNumber is one past the highest version number, or 1.
func (l *Ledger) NextVersionNumber() int {
	latest, ok := l.Latest()
	if !ok {
		return 1
	}
	return latest.VersionNumber + 1
}

// OriginalContract is the total of the latest non-change-order version.
func (l *Ledger) OriginalContract() float64 {
	v, ok := l.LatestOriginal()
	if !ok {
		return 0
	}
	return numeric.Finite(v.TotalAmount)
}

// ChangeOrdersTotal sums change orders whose status is completed or won.
// Drafted and lost change orders never count.
func (l *Ledger) ChangeOrdersTotal() float64 {
	var total float64
	for _, v := range l.versions {
		if v.IsChangeOrder && v.Committed() {
			total += numeric.Finite(v.TotalAmount)
		}
	}
	return total
}

// Reconciliation returns the contract amounts for the proposal.
func (l *Ledger) Reconciliation() Reconciliation {
	original := l.OriginalContract()
	changeOrders := l.ChangeOrdersTotal()
	return Reconciliation{
		ProposalNo:        l.proposalNo,
		OriginalContract:  original,
		ChangeOrdersTotal: changeOrders,
		ContractTotal:     original + changeOrders,
	}
}
