package models

import "errors"

// Typed failures returned by the pricing and risk calculators. Callers match
// them with errors.Is; no error is ever retried internally.
var (
	ErrInvalidVolatility = errors.New("invalid volatility")
	ErrNegativeTime      = errors.New("negative time to maturity")
	ErrInvalidStrike     = errors.New("invalid strike or spot")
	ErrComputationFailed = errors.New("computation failed")
	ErrMissingMarketData = errors.New("missing market data")
)
