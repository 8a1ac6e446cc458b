// Package seed generates synthetic raw leads and calls with the field noise
// seen in the real sources, for local development against DynamoDB Local.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/google/uuid"
)

// Weighted pairs a value with a relative weight for distribution
type Weighted struct {
	Value  string
	Weight float64
}

// Config controls the shape of the generated data
type Config struct {
	LeadsPerDay int
	// RecoveryShare is the probability an after-hours lead gets a recovery
	// contact at the next opening.
	RecoveryShare float64
	// CallShare is the probability an in-hours lead calls in.
	CallShare float64
	// NoiseShare is the probability of a duplicate call, an off-hours live
	// call, or a lead without a timestamp.
	NoiseShare float64
	Recovery   []Weighted
	Regular    []Weighted
	Seed       int64
}

// DefaultConfig returns a mix close to production traffic
func DefaultConfig() Config {
	return Config{
		LeadsPerDay:   200,
		RecoveryShare: 0.35,
		CallShare:     0.6,
		NoiseShare:    0.03,
		Recovery: []Weighted{
			{Value: "SMS-Recovery", Weight: 4},
			{Value: "sms_followup", Weight: 2},
			{Value: "Text Back", Weight: 1},
			{Value: "TXT Campaign 2", Weight: 1},
		},
		Regular: []Weighted{
			{Value: "Google", Weight: 5},
			{Value: "Facebook", Weight: 3},
			{Value: "Bing", Weight: 1},
			{Value: "Direct", Weight: 1},
		},
	}
}

// Generator produces raw records for the centers of a registry
type Generator struct {
	registry *hours.Registry
	cfg      Config
	centers  []types.CallCenterConfig
	rng      *rand.Rand
}

// NewGenerator creates a generator. A zero seed uses the current time.
func NewGenerator(registry *hours.Registry, cfg Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		registry: registry,
		cfg:      cfg,
		centers:  registry.Centers(),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Generate returns LeadsPerDay leads for every day of rng plus the calls
// they produce
func (g *Generator) Generate(rng types.DayRange) ([]types.RawLead, []types.RawCall) {
	var leads []types.RawLead
	var calls []types.RawCall
	if len(g.centers) == 0 {
		return nil, nil
	}

	for day := rng.Start; !day.After(rng.End); day = day.AddDate(0, 0, 1) {
		for i := 0; i < g.cfg.LeadsPerDay; i++ {
			cc := g.centers[g.rng.Intn(len(g.centers))]
			ts := day.Add(time.Duration(g.rng.Int63n(int64(24 * time.Hour))))
			lead, ids := g.lead(cc, ts)
			leads = append(leads, lead)
			calls = append(calls, g.callsFor(cc, ts, ids)...)
		}
	}
	return leads, calls
}

// identity is what a later call can be matched on
type identity struct {
	phone string
	click string
}

func (g *Generator) lead(cc types.CallCenterConfig, ts time.Time) (types.RawLead, identity) {
	phone := fmt.Sprintf("%03d%03d%04d", 200+g.rng.Intn(800), g.rng.Intn(1000), g.rng.Intn(10000))
	lead := types.RawLead{
		DateKey:   ts.UTC().Format(types.DateLayout),
		LeadID:    uuid.NewString(),
		UTMSource: g.keyVariant(cc),
	}

	switch g.rng.Intn(3) {
	case 0:
		lead.Timestampz = ts.UTC().Format(time.RFC3339)
	case 1:
		lead.Timestampz = ts.UTC().Format("2006-01-02 15:04:05.999999-07")
	default:
		lead.CreatedAt = ts.UTC().Format(time.RFC3339Nano)
	}
	if g.chance(g.cfg.NoiseShare) {
		lead.Timestampz, lead.CreatedAt = "", ""
	}

	var id identity
	if g.chance(0.9) {
		id.phone = phone
		if g.chance(0.5) {
			lead.PhoneNumberNorm = phone
		} else {
			lead.PhoneNumber = formatPhone(g.rng, phone)
		}
	}
	if g.chance(0.3) {
		id.click = "clk-" + uuid.NewString()[:8]
		if g.chance(0.5) {
			lead.CID = id.click
		} else {
			lead.ClickID = id.click
		}
	}
	return lead, id
}

func (g *Generator) callsFor(cc types.CallCenterConfig, ts time.Time, id identity) []types.RawCall {
	if id.phone == "" && id.click == "" {
		return nil
	}

	var out []types.RawCall
	if g.registry.IsAfterHours(ts, cc.ID) {
		if g.chance(g.cfg.RecoveryShare) {
			if open, ok := g.nextOpening(cc.ID, ts); ok {
				c := g.call(cc, open.Add(time.Duration(g.rng.Intn(90))*time.Minute), id, pickWeighted(g.rng, g.cfg.Recovery))
				if len(cc.DIDs) > 0 {
					c.CCNumber = cc.DIDs[g.rng.Intn(len(cc.DIDs))]
				}
				out = append(out, c)
			}
		}
		if g.chance(g.cfg.NoiseShare) {
			// live call while closed
			out = append(out, g.call(cc, ts.Add(10*time.Minute), id, pickWeighted(g.rng, g.cfg.Regular)))
		}
		return out
	}

	if g.chance(g.cfg.CallShare) {
		c := g.call(cc, ts.Add(time.Duration(1+g.rng.Intn(20))*time.Minute), id, pickWeighted(g.rng, g.cfg.Regular))
		out = append(out, c)
		if g.chance(g.cfg.NoiseShare) {
			dup := c
			dup.CallID = uuid.NewString()
			out = append(out, dup)
		}
	}
	return out
}

func (g *Generator) call(cc types.CallCenterConfig, ts time.Time, id identity, publisher string) types.RawCall {
	c := types.RawCall{
		DateKey:       ts.UTC().Format(types.DateLayout),
		CallID:        uuid.NewString(),
		CallCenter:    g.keyVariant(cc),
		CallDate:      ts.UTC().Format(time.RFC3339),
		PublisherName: publisher,
		ClickID:       id.click,
	}
	if id.phone != "" {
		c.CallerPhone = formatPhone(g.rng, id.phone)
	}
	return c
}

// nextOpening returns the start of the first in-hours window after ts
func (g *Generator) nextOpening(key string, ts time.Time) (time.Time, bool) {
	ws := g.registry.DailyWindows(key, ts, ts.AddDate(0, 0, 8))
	for _, w := range ws.InHours {
		if w.Start.After(ts) {
			return w.Start, true
		}
	}
	return time.Time{}, false
}

// keyVariant spells the center key the way the sources do, sometimes with
// and sometimes without separators
func (g *Generator) keyVariant(cc types.CallCenterConfig) string {
	if g.chance(0.5) {
		return hours.StripSeparators(cc.ID)
	}
	return cc.ID
}

func (g *Generator) chance(p float64) bool {
	return g.rng.Float64() < p
}

func formatPhone(rng *rand.Rand, digits string) string {
	switch rng.Intn(4) {
	case 0:
		return digits
	case 1:
		return "+1" + digits
	case 2:
		return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
	default:
		return fmt.Sprintf("1-%s-%s-%s", digits[:3], digits[3:6], digits[6:])
	}
}

// pickWeighted selects a value based on the configured weights
func pickWeighted(rng *rand.Rand, values []Weighted) string {
	if len(values) == 0 {
		return ""
	}

	var total float64
	for _, v := range values {
		total += v.Weight
	}

	r := rng.Float64() * total
	for _, v := range values {
		r -= v.Weight
		if r <= 0 {
			return v.Value
		}
	}
	return values[len(values)-1].Value
}
