package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentMode selects between a one-time purchase and a recurring schedule
type InvestmentMode string

// Investment modes
const (
	ModeLumpSum InvestmentMode = "lumpsum"
	ModeSIP     InvestmentMode = "sip"
)

// IsValid reports whether the mode is a known investment mode
func (m InvestmentMode) IsValid() bool {
	return m == ModeLumpSum || m == ModeSIP
}

// InvestmentRequest describes a single simulated investment. Amount is the
// purchase amount for lumpsum mode and the per-month contribution for SIP.
type InvestmentRequest struct {
	Mode      InvestmentMode  `json:"mode" validate:"required,oneof=lumpsum sip"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	StartDate time.Time       `json:"start_date" validate:"required"`
	EndDate   time.Time       `json:"end_date"`
}

// Validate performs the eager request checks that must pass before any
// simulation begins.
func (r *InvestmentRequest) Validate() error {
	if !r.Mode.IsValid() {
		return NewInvalidRequestError("mode", "must be lumpsum or sip")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return NewInvalidRequestError("amount", "must be positive")
	}
	if r.StartDate.IsZero() {
		return NewInvalidRequestError("start_date", "is required")
	}
	if r.Mode == ModeSIP {
		if r.EndDate.IsZero() {
			return NewInvalidRequestError("end_date", "is required for sip")
		}
		if !r.EndDate.After(r.StartDate) {
			return NewInvalidRequestError("end_date", "must be after start_date")
		}
	}
	return nil
}

// EffectiveEndDate returns the end of the investment window, defaulting to
// now for lumpsum requests without an explicit end.
func (r *InvestmentRequest) EffectiveEndDate(now time.Time) time.Time {
	if r.EndDate.IsZero() {
		return now
	}
	return r.EndDate
}

// AmountValue returns the request amount as a float for engine arithmetic
func (r *InvestmentRequest) AmountValue() float64 {
	return r.Amount.InexactFloat64()
}
