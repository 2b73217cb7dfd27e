package models

// Position is a single option-like holding on a traded commodity. The sign of
// Notional encodes direction: positive is long, negative is short. Positions
// are immutable once constructed; the engine never mutates them.
type Position struct {
	InstrumentID string  `json:"instrument_id"`
	Underlying   string  `json:"underlying"`
	Notional     float64 `json:"notional"`
	Strike       float64 `json:"strike"`
	Maturity     float64 `json:"maturity"` // years
	IsCall       bool    `json:"is_call"`
}

// Valid reports whether the position is usable for risk calculations.
func (p Position) Valid() bool {
	return p.Underlying != "" &&
		p.Notional != 0 &&
		p.Strike > 0 &&
		p.Maturity >= 0
}
