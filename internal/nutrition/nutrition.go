// Package nutrition derives calorie and per-100g nutrition values from
// macro-nutrient amounts. Derived values are recomputed on every read; the
// macro fields stay the single source of truth.
package nutrition

import "errors"

// Energy density per gram of each macro-nutrient, in kcal.
const (
	caloriesPerGramFat          = 9
	caloriesPerGramCarbohydrate = 4
	caloriesPerGramProtein      = 4
)

// ErrInvalidAggregation is returned when an aggregation has no weight to
// divide by: an empty ingredient list or an explicit zero weight override.
var ErrInvalidAggregation = errors.New("nutrition: total weight must be greater than zero")

// Profile holds macro-nutrient amounts in grams per 100g of a food item.
type Profile struct {
	Proteins      float64
	Carbohydrates float64
	Fats          float64
}

// Calories returns the energy of the profile in kcal per 100g.
func (p Profile) Calories() float64 {
	return Calories(p.Proteins, p.Carbohydrates, p.Fats)
}

// Calories converts macro-nutrient grams to kcal.
func Calories(proteins, carbohydrates, fats float64) float64 {
	return fats*caloriesPerGramFat + carbohydrates*caloriesPerGramCarbohydrate + proteins*caloriesPerGramProtein
}

// Entry is one weighed ingredient: a per-100g profile plus its quantity in grams.
type Entry struct {
	Profile
	Quantity float64
}

// Aggregate combines weighted per-100g profiles into a single per-100g
// profile. Each entry contributes absolute grams scaled by quantity/100;
// the sums are divided by the total ingredient weight. A non-nil
// targetWeight replaces that divisor, which models a recipe whose cooked
// weight differs from the sum of raw ingredient weights.
func Aggregate(entries []Entry, targetWeight *float64) (Profile, error) {
	var absolute Profile
	var totalQuantity float64

	for _, e := range entries {
		factor := e.Quantity / 100
		totalQuantity += e.Quantity
		absolute.Proteins += e.Proteins * factor
		absolute.Carbohydrates += e.Carbohydrates * factor
		absolute.Fats += e.Fats * factor
	}

	divisor := totalQuantity
	if targetWeight != nil {
		divisor = *targetWeight
	}
	if divisor <= 0 {
		return Profile{}, ErrInvalidAggregation
	}

	return Profile{
		Proteins:      absolute.Proteins / divisor * 100,
		Carbohydrates: absolute.Carbohydrates / divisor * 100,
		Fats:          absolute.Fats / divisor * 100,
	}, nil
}
