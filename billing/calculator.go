package billing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"parking/entities"
)

var ErrPriceOverflow = errors.New("price does not fit in int64")

// RateTable prices a stay: BaseRate covers the first Unit, every further Unit or
// part of one costs UnitRate.
type RateTable struct {
	Unit     time.Duration
	BaseRate int64
	UnitRate int64
	Currency string
}

func DefaultRateTable() RateTable {
	return RateTable{
		Unit:     time.Hour,
		BaseRate: 3000,
		UnitRate: 3000,
		Currency: "IDR",
	}
}

func (r RateTable) Validate() error {
	var errs []error
	if r.Unit < time.Minute {
		errs = append(errs, fmt.Errorf("billing unit must be at least one minute, got %s", r.Unit))
	}
	if r.BaseRate < 0 {
		errs = append(errs, fmt.Errorf("base rate must not be negative, got %d", r.BaseRate))
	}
	if r.UnitRate < 0 {
		errs = append(errs, fmt.Errorf("unit rate must not be negative, got %d", r.UnitRate))
	}
	if r.Currency == "" {
		errs = append(errs, errors.New("currency is required"))
	}
	return errors.Join(errs...)
}

// ComputePrice returns the price of a stay from checkIn to checkOut.
// Stays are billed by whole minutes and partial units are always rounded up.
func ComputePrice(checkIn, checkOut time.Time, rates RateTable) (int64, error) {
	if !checkOut.After(checkIn) {
		return 0, entities.ErrInvalidInterval
	}

	return priceFor(checkOut.Sub(checkIn), rates)
}

func priceFor(elapsed time.Duration, rates RateTable) (int64, error) {
	elapsed = elapsed.Truncate(time.Minute)
	if elapsed <= rates.Unit {
		return rates.BaseRate, nil
	}

	extra := elapsed - rates.Unit
	extraUnits := int64(extra / rates.Unit)
	if extra%rates.Unit != 0 {
		extraUnits++
	}

	if rates.UnitRate > 0 && extraUnits > (math.MaxInt64-rates.BaseRate)/rates.UnitRate {
		return 0, fmt.Errorf("%w: %d units of %d over a base of %d", ErrPriceOverflow, extraUnits, rates.UnitRate, rates.BaseRate)
	}

	return rates.BaseRate + extraUnits*rates.UnitRate, nil
}
