package nutrition

import (
	"errors"
	"math"
	"testing"
)

func TestCalories(t *testing.T) {
	tests := []struct {
		name                          string
		proteins, carbohydrates, fats float64
		want                          float64
	}{
		{name: "zero", want: 0},
		{name: "one gram fat", fats: 1, want: 9},
		{name: "protein and carbohydrate", proteins: 1, carbohydrates: 1, want: 8},
		{name: "mixed", proteins: 10, carbohydrates: 20, fats: 5, want: 165},
		{name: "fractional", proteins: 0.5, carbohydrates: 0.25, fats: 0.5, want: 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calories(tt.proteins, tt.carbohydrates, tt.fats)
			if got != tt.want {
				t.Fatalf("Calories(%v, %v, %v) = %v, want %v", tt.proteins, tt.carbohydrates, tt.fats, got, tt.want)
			}
		})
	}
}

func TestProfileCalories(t *testing.T) {
	p := Profile{Proteins: 10, Carbohydrates: 20, Fats: 5}
	if got := p.Calories(); got != 165 {
		t.Fatalf("Calories() = %v, want 165", got)
	}
}

func TestAggregate(t *testing.T) {
	weight := func(w float64) *float64 { return &w }

	tests := []struct {
		name         string
		entries      []Entry
		targetWeight *float64
		want         Profile
		wantErr      error
	}{
		{
			name:    "empty ingredient list",
			wantErr: ErrInvalidAggregation,
		},
		{
			name: "explicit zero weight override",
			entries: []Entry{
				{Profile: Profile{Proteins: 10, Carbohydrates: 20, Fats: 5}, Quantity: 100},
			},
			targetWeight: weight(0),
			wantErr:      ErrInvalidAggregation,
		},
		{
			name: "single 100g ingredient is identity",
			entries: []Entry{
				{Profile: Profile{Proteins: 10, Carbohydrates: 20, Fats: 5}, Quantity: 100},
			},
			want: Profile{Proteins: 10, Carbohydrates: 20, Fats: 5},
		},
		{
			name: "two ingredients averaged by weight",
			entries: []Entry{
				{Profile: Profile{Proteins: 10, Carbohydrates: 0, Fats: 0}, Quantity: 100},
				{Profile: Profile{Proteins: 30, Carbohydrates: 0, Fats: 0}, Quantity: 300},
			},
			// 10g + 90g protein over 400g total.
			want: Profile{Proteins: 25},
		},
		{
			name: "target weight override concentrates the result",
			entries: []Entry{
				{Profile: Profile{Proteins: 10, Carbohydrates: 20, Fats: 5}, Quantity: 100},
				{Profile: Profile{Proteins: 2, Carbohydrates: 8, Fats: 1}, Quantity: 100},
			},
			targetWeight: weight(50),
			// Absolute grams: 12p, 28c, 6f scaled to per-100g of a 50g yield.
			want: Profile{Proteins: 24, Carbohydrates: 56, Fats: 12},
		},
		{
			name: "quantities below 100g scale down",
			entries: []Entry{
				{Profile: Profile{Proteins: 20, Carbohydrates: 40, Fats: 10}, Quantity: 50},
			},
			want: Profile{Proteins: 20, Carbohydrates: 40, Fats: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.entries, tt.targetWeight)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Aggregate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Aggregate() unexpected error: %v", err)
			}
			if !profilesClose(got, tt.want) {
				t.Fatalf("Aggregate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func profilesClose(a, b Profile) bool {
	const eps = 1e-9
	return math.Abs(a.Proteins-b.Proteins) < eps &&
		math.Abs(a.Carbohydrates-b.Carbohydrates) < eps &&
		math.Abs(a.Fats-b.Fats) < eps
}
