package aggregator

import (
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

// CenterInput is everything a recovery strategy may look at for one center
type CenterInput struct {
	Key     string
	Matches []types.LeadCallMatch
	Calls   []types.NormalizedCall
	Windows types.Windows
}

// RecoveryStrategy decides how many after-hours leads of a center count as
// recovered. Implementations are named so reports can state which rule
// produced them.
type RecoveryStrategy interface {
	Name() string
	Callbacks(in CenterInput) int
}

// MatchedRecovery counts after-hours leads whose match set contains at least
// one recovery contact received during hours.
type MatchedRecovery struct{}

func (MatchedRecovery) Name() string { return "matched" }

func (MatchedRecovery) Callbacks(in CenterInput) int {
	n := 0
	for _, m := range in.Matches {
		if m.Lead.AfterHours() && m.HasClass(types.CallRecovery) {
			n++
		}
	}
	return n
}

// WindowRecovery counts distinct recovery contacts landing inside the
// center's in-hours windows over the range, independent of lead matching.
// The count can exceed the after-hours lead count.
type WindowRecovery struct{}

func (WindowRecovery) Name() string { return "window" }

type callIdentity struct {
	ts          time.Time
	phone       string
	correlation string
}

func (WindowRecovery) Callbacks(in CenterInput) int {
	seen := make(map[callIdentity]struct{})
	for _, c := range in.Calls {
		if !c.IsRecoveryContact || !hours.InHoursAt(in.Windows, c.Timestamp) {
			continue
		}
		id := callIdentity{ts: c.Timestamp.UTC()}
		if c.PhoneKey != nil {
			id.phone = *c.PhoneKey
		}
		if c.CorrelationKey != nil {
			id.correlation = *c.CorrelationKey
		}
		seen[id] = struct{}{}
	}
	return len(seen)
}

// StrategyByName resolves a configured strategy name
func StrategyByName(name string) (RecoveryStrategy, bool) {
	switch name {
	case "", "matched":
		return MatchedRecovery{}, true
	case "window":
		return WindowRecovery{}, true
	}
	return nil, false
}
