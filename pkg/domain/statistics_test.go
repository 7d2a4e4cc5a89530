package domain

import (
	"math"
	"testing"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		xs       []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"several", []float64{1, 2, 3, 4}, 2.5},
		{"negative", []float64{-2, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.xs); !FloatEquals(got, tt.expected) {
				t.Errorf("Mean(%v) = %v, want %v", tt.xs, got, tt.expected)
			}
		})
	}
}

func TestStdDev(t *testing.T) {
	tests := []struct {
		name     string
		xs       []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 0},
		{"constant", []float64{3, 3, 3, 3}, 0},
		{"known", []float64{2, 4, 4, 4, 5, 5, 7, 9}, math.Sqrt(32.0 / 7.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StdDev(tt.xs); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("StdDev(%v) = %v, want %v", tt.xs, got, tt.expected)
			}
		})
	}
}

func TestAggregateReplications(t *testing.T) {
	replications := [][]NodeResult{
		{
			{Node: 0, ServiceLevel: 1.0, AvgOnHand: 0},
			{Node: 1, ServiceLevel: 0.90, AvgOnHand: 100},
		},
		{
			{Node: 0, ServiceLevel: 1.0, AvgOnHand: 0},
			{Node: 1, ServiceLevel: 0.96, AvgOnHand: 120},
		},
	}

	aggregates, err := AggregateReplications(replications)
	if err != nil {
		t.Fatalf("AggregateReplications returned error: %v", err)
	}
	if len(aggregates) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(aggregates))
	}

	retailer := aggregates[1]
	if !FloatEquals(retailer.MeanServiceLevel, 0.93) {
		t.Errorf("MeanServiceLevel = %v, want 0.93", retailer.MeanServiceLevel)
	}
	if !FloatEquals(retailer.MeanOnHand, 110) {
		t.Errorf("MeanOnHand = %v, want 110", retailer.MeanOnHand)
	}
	if !FloatEquals(retailer.MinServiceLevel, 0.90) {
		t.Errorf("MinServiceLevel = %v, want 0.90", retailer.MinServiceLevel)
	}
	if !FloatEquals(retailer.MaxServiceLevel, 0.96) {
		t.Errorf("MaxServiceLevel = %v, want 0.96", retailer.MaxServiceLevel)
	}
	if retailer.StdServiceLevel <= 0 {
		t.Error("StdServiceLevel should be positive for varying replications")
	}

	source := aggregates[0]
	if source.StdServiceLevel != 0 || source.StdOnHand != 0 {
		t.Error("source aggregates should have zero spread")
	}
}

func TestAggregateReplications_Errors(t *testing.T) {
	if _, err := AggregateReplications(nil); !apperror.Is(err, apperror.CodeInvalidArgument) {
		t.Errorf("expected CodeInvalidArgument for empty input, got %v", err)
	}

	mismatched := [][]NodeResult{
		{{Node: 0}, {Node: 1}},
		{{Node: 0}},
	}
	if _, err := AggregateReplications(mismatched); !apperror.Is(err, apperror.CodeLengthMismatch) {
		t.Errorf("expected CodeLengthMismatch, got %v", err)
	}
}

func TestTotalOnHand(t *testing.T) {
	aggregates := []NodeAggregate{
		{Node: 0, MeanOnHand: 0},
		{Node: 1, MeanOnHand: 250.5},
		{Node: 2, MeanOnHand: 99.5},
	}

	if got := TotalOnHand(aggregates); !FloatEquals(got, 350.0) {
		t.Errorf("TotalOnHand = %v, want 350.0", got)
	}
	if got := TotalOnHand(nil); got != 0 {
		t.Errorf("TotalOnHand(nil) = %v, want 0", got)
	}
}
