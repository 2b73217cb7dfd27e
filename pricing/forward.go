package pricing

// ForwardCurve is the external market-data collaborator supplying forward
// prices. Curve construction and interpolation live outside the engine.
type ForwardCurve interface {
	GetForward(maturity float64) float64
}

// bumpedCurve overlays a proportional bump on the forward at a single tenor,
// leaving every other point untouched. Used for curve sensitivities.
type bumpedCurve struct {
	base   ForwardCurve
	tenor  float64
	factor float64
}

func (c bumpedCurve) GetForward(maturity float64) float64 {
	forward := c.base.GetForward(maturity)
	if maturity == c.tenor {
		return forward * c.factor
	}
	return forward
}
