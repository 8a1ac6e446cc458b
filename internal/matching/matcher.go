// Package matching joins normalized leads to the calls they generated.
//
// Calls are indexed by phone key and by correlation key, both scoped to the
// call center. A lead takes every call sharing its phone key; only when that
// yields nothing does it fall back to calls sharing its correlation key. The
// join is many-to-many: one call may be attributed to several leads and a
// lead "has a call" iff its call list is non-empty.
package matching

import (
	"strconv"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

// indexKey scopes an identifier to a call center
type indexKey struct {
	center string
	value  string
}

// Index holds the two call indexes
type Index struct {
	byPhone       *MultiMap[indexKey, types.NormalizedCall]
	byCorrelation *MultiMap[indexKey, types.NormalizedCall]
}

// NewIndex indexes calls by phone key and correlation key
func NewIndex(calls []types.NormalizedCall) *Index {
	idx := &Index{
		byPhone:       NewMultiMap[indexKey, types.NormalizedCall](),
		byCorrelation: NewMultiMap[indexKey, types.NormalizedCall](),
	}
	for _, c := range calls {
		if c.PhoneKey != nil {
			idx.byPhone.Add(indexKey{c.CallCenter, *c.PhoneKey}, c)
		}
		if c.CorrelationKey != nil {
			idx.byCorrelation.Add(indexKey{c.CallCenter, *c.CorrelationKey}, c)
		}
	}
	return idx
}

// CallsFor returns the calls attributed to a lead
func (idx *Index) CallsFor(lead types.NormalizedLead) []types.NormalizedCall {
	var found []types.NormalizedCall
	if lead.PhoneKey != nil {
		found = idx.byPhone.Get(indexKey{lead.CallCenter, *lead.PhoneKey})
	}
	if len(found) == 0 && lead.CorrelationKey != nil {
		found = idx.byCorrelation.Get(indexKey{lead.CallCenter, *lead.CorrelationKey})
	}
	if len(found) == 0 {
		return nil
	}
	out := make([]types.NormalizedCall, len(found))
	copy(out, found)
	return out
}

// Matches is the lead to calls association. Every lead gets an entry; two
// leads sharing a key are kept as two entries.
type Matches struct {
	m *MultiMap[types.LeadKey, types.LeadCallMatch]
}

// Len returns the number of matched leads
func (ms *Matches) Len() int {
	return ms.m.Len()
}

// Get returns the entries stored under a key
func (ms *Matches) Get(k types.LeadKey) []types.LeadCallMatch {
	return ms.m.Get(k)
}

// All returns every entry in lead order
func (ms *Matches) All() []types.LeadCallMatch {
	out := make([]types.LeadCallMatch, 0, ms.m.Len())
	ms.m.Each(func(_ types.LeadKey, v types.LeadCallMatch) {
		out = append(out, v)
	})
	return out
}

// ByCallCenter groups entries by call center
func (ms *Matches) ByCallCenter() map[string][]types.LeadCallMatch {
	out := make(map[string][]types.LeadCallMatch)
	ms.m.Each(func(k types.LeadKey, v types.LeadCallMatch) {
		out[k.CallCenter] = append(out[k.CallCenter], v)
	})
	return out
}

// KeyFor builds the lead key: correlation key, else phone key, else the
// timestamp. Timestamp keys make identifier-less leads distinct entries.
func KeyFor(lead types.NormalizedLead) types.LeadKey {
	switch {
	case lead.CorrelationKey != nil:
		return types.LeadKey{CallCenter: lead.CallCenter, ID: *lead.CorrelationKey}
	case lead.PhoneKey != nil:
		return types.LeadKey{CallCenter: lead.CallCenter, ID: *lead.PhoneKey}
	default:
		return types.LeadKey{CallCenter: lead.CallCenter, ID: "ts:" + strconv.FormatInt(lead.Timestamp.UnixNano(), 10)}
	}
}

// Match associates every lead with the calls of its center sharing its
// phone key, falling back to its correlation key.
func Match(leads []types.NormalizedLead, calls []types.NormalizedCall) *Matches {
	idx := NewIndex(calls)
	out := &Matches{m: NewMultiMap[types.LeadKey, types.LeadCallMatch]()}
	for _, lead := range leads {
		key := KeyFor(lead)
		out.m.Add(key, types.LeadCallMatch{
			Key:   key,
			Lead:  lead,
			Calls: idx.CallsFor(lead),
		})
	}
	return out
}
