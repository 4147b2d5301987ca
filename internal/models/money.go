package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/apperr"
)

// maxPrice is the first amount a NUMERIC(10,2) column cannot hold.
var maxPrice = decimal.NewFromInt(100000000)

// ParsePrice reads a non-negative amount with at most two decimal places.
// Both "12,50" and "12.50" are accepted.
func ParsePrice(field, raw string) (decimal.Decimal, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if value == "" {
		return decimal.Zero, apperr.Invalid(field, "price is required")
	}

	price, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperr.Invalid(field, "price must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, apperr.Invalid(field, "price must not be negative")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, apperr.Invalid(field, "price is too large")
	}
	if !price.Equal(price.Round(2)) {
		return decimal.Zero, apperr.Invalid(field, "price must have at most two decimal places")
	}
	return price, nil
}

// ParseRate reads a strictly positive amount such as an hourly rate.
func ParseRate(field, raw string) (decimal.Decimal, error) {
	rate, err := ParsePrice(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !rate.IsPositive() {
		return decimal.Zero, apperr.Invalid(field, "rate must be greater than zero")
	}
	return rate, nil
}

// ParsePriceMap parses a size or ingredient-type keyed price list.
func ParsePriceMap(field string, raw map[int64]string) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal, len(raw))
	for id, value := range raw {
		price, err := ParsePrice(fmt.Sprintf("%s[%d]", field, id), value)
		if err != nil {
			return nil, err
		}
		prices[id] = price
	}
	return prices, nil
}
