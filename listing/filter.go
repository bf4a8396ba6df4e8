// Package listing implements the query contract of the public car list:
// predicate conjunction followed by an optional price sort. Both operations
// are pure — they never mutate their input — and the sort is stable for
// equal keys, so applying a filter twice yields the same result as once.
package listing

import (
	"sort"
	"strings"

	"car-rental-api/models"
)

// Filter is a conjunction of listing predicates. Zero values mean
// "no constraint".
type Filter struct {
	Search           string             // substring match on brand or model, case-insensitive
	Kind             models.ListingKind // "" matches both kinds
	HandicapFriendly bool               // when true, only accessibility-tagged cars
	MinMileage       *int               // inclusive
	MaxMileage       *int               // inclusive
}

// Matches reports whether a single car satisfies every predicate.
func (f Filter) Matches(car *models.Car) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(car.Brand), needle) &&
			!strings.Contains(strings.ToLower(car.Model), needle) {
			return false
		}
	}
	if f.Kind != "" && car.Kind != f.Kind {
		return false
	}
	if f.HandicapFriendly && !car.HandicapFriendly {
		return false
	}
	if f.MinMileage != nil && car.Mileage < *f.MinMileage {
		return false
	}
	if f.MaxMileage != nil && car.Mileage > *f.MaxMileage {
		return false
	}
	return true
}

// Apply returns the cars satisfying the filter, preserving input order.
func Apply(cars []models.Car, f Filter) []models.Car {
	out := make([]models.Car, 0, len(cars))
	for i := range cars {
		if f.Matches(&cars[i]) {
			out = append(out, cars[i])
		}
	}
	return out
}

// SortByPrice returns a copy of cars ordered by effective price (sale price
// for sale-kind, daily rate for rent-kind). Equal keys keep their relative
// input order.
func SortByPrice(cars []models.Car, descending bool) []models.Car {
	out := make([]models.Car, len(cars))
	copy(out, cars)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].EffectivePrice() > out[j].EffectivePrice()
		}
		return out[i].EffectivePrice() < out[j].EffectivePrice()
	})
	return out
}
