package components

import "math"

// Kind identifies a protein species.
type Kind uint8

const (
	KindTCR Kind = iota
	KindCD45
)

// String returns the species name.
func (k Kind) String() string {
	switch k {
	case KindTCR:
		return "TCR"
	case KindCD45:
		return "CD45"
	default:
		return "unknown"
	}
}

// BindingRangeMode selects how the CD45 binding bonus is gated on height.
type BindingRangeMode uint8

const (
	// BindingGated applies the bonus only when Length-BindRange <= h <= Length+BindRange.
	BindingGated BindingRangeMode = iota
	// BindingAlways applies the bonus at every height.
	BindingAlways
)

// Protein holds a membrane protein's mechanical parameters and binding state.
// BindEnergy, BindRange and BindMode are only read for CD45; Bound only for TCR.
type Protein struct {
	ID        uint32
	Kind      Kind
	Length    float64 // rest length (nm)
	K         float64 // spring constant for compression
	Diffusion float64 // nm^2/s

	BindEnergy float64          // negative bonus
	BindRange  float64          // half width around Length
	BindMode   BindingRangeMode // gated or always

	Bound bool // TCR only; false -> true, never reverts
}

// CompressionEnergy returns the spring penalty at gap height h.
// Heights below the rest length cost nothing.
func (p *Protein) CompressionEnergy(h float64) float64 {
	if h < p.Length {
		return 0
	}
	d := h - p.Length
	return 0.5 * p.K * d * d
}

// BindingEnergy returns the CD45 binding bonus at gap height h.
func (p *Protein) BindingEnergy(h float64) float64 {
	if p.Kind != KindCD45 {
		return 0
	}
	if p.BindMode == BindingAlways {
		return p.BindEnergy
	}
	if h >= p.Length-p.BindRange && h <= p.Length+p.BindRange {
		return p.BindEnergy
	}
	return 0
}

// Energy returns the protein's potential energy at gap height h.
// A bound TCR is pinned at negative infinity.
func (p *Protein) Energy(h float64) float64 {
	switch p.Kind {
	case KindTCR:
		if p.Bound {
			return math.Inf(-1)
		}
		return p.CompressionEnergy(h)
	case KindCD45:
		return p.CompressionEnergy(h) + p.BindingEnergy(h)
	default:
		return p.CompressionEnergy(h)
	}
}

// CanBind reports whether the protein binds ligands on the opposing membrane.
func (p *Protein) CanBind() bool {
	return p.Kind == KindTCR
}

// SetBound marks a TCR as bound. It returns false if the protein cannot bind
// or was already bound.
func (p *Protein) SetBound() bool {
	if !p.CanBind() || p.Bound {
		return false
	}
	p.Bound = true
	return true
}
