package types

import "time"

// LeadClass is the hours classification of a lead
type LeadClass string

const (
	LeadInHours    LeadClass = "in_hours"
	LeadAfterHours LeadClass = "after_hours"
)

// CallClass is the call-type-aware classification of a call
type CallClass string

const (
	CallRegular          CallClass = "regular"            // live inbound call during hours
	CallRecovery         CallClass = "recovery"           // recovery contact received during hours
	CallRecoveryOffHours CallClass = "recovery_off_hours" // recovery contact outside hours, never a callback
	CallExcluded         CallClass = "excluded"           // regular call outside hours
)

// NormalizedLead is a lead after timestamp, key and identifier resolution
type NormalizedLead struct {
	CallCenter     string    `json:"callCenter"`    // separators stripped
	RawCallCenter  string    `json:"rawCallCenter"` // as received, for config lookups
	Timestamp      time.Time `json:"timestamp"`
	CorrelationKey *string   `json:"correlationKey,omitempty"`
	PhoneKey       *string   `json:"phoneKey,omitempty"`
	Class          LeadClass `json:"class"`
}

// AfterHours reports whether the lead arrived outside operating hours
func (l NormalizedLead) AfterHours() bool {
	return l.Class == LeadAfterHours
}

// NormalizedCall is a call after timestamp, key and identifier resolution
type NormalizedCall struct {
	CallCenter        string    `json:"callCenter"`
	RawCallCenter     string    `json:"rawCallCenter"`
	Timestamp         time.Time `json:"timestamp"`
	CorrelationKey    *string   `json:"correlationKey,omitempty"`
	PhoneKey          *string   `json:"phoneKey,omitempty"`
	IsRecoveryContact bool      `json:"isRecoveryContact"`
	RawLabel          string    `json:"rawLabel,omitempty"`
	Class             CallClass `json:"class"`
}

// LeadKey identifies a lead within its call center
type LeadKey struct {
	CallCenter string
	ID         string // correlation key, else phone key, else "ts:<unixnano>"
}

func (k LeadKey) String() string {
	return k.CallCenter + "-" + k.ID
}

// LeadCallMatch associates one lead with the calls attributed to it
type LeadCallMatch struct {
	Key   LeadKey          `json:"key"`
	Lead  NormalizedLead   `json:"lead"`
	Calls []NormalizedCall `json:"calls"`
}

// HasCall reports whether at least one call is attributed to the lead
func (m LeadCallMatch) HasCall() bool {
	return len(m.Calls) > 0
}

// HasClass reports whether any attributed call has the given class
func (m LeadCallMatch) HasClass(class CallClass) bool {
	for _, c := range m.Calls {
		if c.Class == class {
			return true
		}
	}
	return false
}
