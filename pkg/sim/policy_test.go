package sim

import (
	"testing"

	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/apperror"
	"github.com/anshul-musing/multi-echelon-inventory-optimization/pkg/domain"
)

func TestBackorderPolicyApplyDemand(t *testing.T) {
	tests := []struct {
		name          string
		onHand        float64
		backOrder     float64
		lateSales     float64
		demand        float64
		wantOnHand    float64
		wantBackOrder float64
		wantLateSales float64
	}{
		{
			name:   "full stock ships everything",
			onHand: 50, demand: 10,
			wantOnHand: 40, wantBackOrder: 0, wantLateSales: 0,
		},
		{
			name:   "shortage becomes debt",
			onHand: 4, demand: 10,
			wantOnHand: 0, wantBackOrder: 6, wantLateSales: 6,
		},
		{
			name:   "restock clears debt without new late sales",
			onHand: 100, backOrder: 6, lateSales: 6, demand: 2,
			wantOnHand: 92, wantBackOrder: 0, wantLateSales: 6,
		},
		{
			name:   "partial debt payment",
			onHand: 5, backOrder: 6, lateSales: 6, demand: 2,
			wantOnHand: 0, wantBackOrder: 3, wantLateSales: 6,
		},
		{
			name:   "empty stock defers full demand",
			onHand: 0, demand: 7,
			wantOnHand: 0, wantBackOrder: 7, wantLateSales: 7,
		},
		{
			name:   "zero demand is a no-op",
			onHand: 30, demand: 0,
			wantOnHand: 30, wantBackOrder: 0, wantLateSales: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Facility{
				OnHand:         tt.onHand,
				Position:       tt.onHand,
				TotalBackOrder: tt.backOrder,
				TotalLateSales: tt.lateSales,
			}
			BackorderPolicy{}.ApplyDemand(f, tt.demand)

			if f.OnHand != tt.wantOnHand {
				t.Errorf("OnHand = %v, want %v", f.OnHand, tt.wantOnHand)
			}
			if f.Position != tt.wantOnHand {
				t.Errorf("Position = %v, want %v", f.Position, tt.wantOnHand)
			}
			if f.TotalBackOrder != tt.wantBackOrder {
				t.Errorf("TotalBackOrder = %v, want %v", f.TotalBackOrder, tt.wantBackOrder)
			}
			if f.TotalLateSales != tt.wantLateSales {
				t.Errorf("TotalLateSales = %v, want %v", f.TotalLateSales, tt.wantLateSales)
			}
		})
	}
}

func TestBackorderPolicyServiceLevel(t *testing.T) {
	f := &Facility{TotalDemand: 100, TotalLateSales: 7}
	got := BackorderPolicy{}.ServiceLevel(f)
	want := 1.0 - 7.0/(100.0+domain.DemandEpsilon)
	if got != want {
		t.Errorf("ServiceLevel = %v, want %v", got, want)
	}

	idle := &Facility{}
	if got := (BackorderPolicy{}).ServiceLevel(idle); got != 1.0 {
		t.Errorf("ServiceLevel with no demand = %v, want 1.0", got)
	}
}

func TestLostSalesPolicyApplyDemand(t *testing.T) {
	tests := []struct {
		name        string
		onHand      float64
		shipped     float64
		demand      float64
		wantOnHand  float64
		wantShipped float64
	}{
		{
			name:   "full stock ships everything",
			onHand: 50, demand: 10,
			wantOnHand: 40, wantShipped: 10,
		},
		{
			name:   "shortage ships what is on hand",
			onHand: 3, demand: 10,
			wantOnHand: 0, wantShipped: 3,
		},
		{
			name:   "empty stock ships nothing",
			onHand: 0, shipped: 5, demand: 10,
			wantOnHand: 0, wantShipped: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Facility{
				OnHand:       tt.onHand,
				Position:     tt.onHand,
				TotalShipped: tt.shipped,
			}
			LostSalesPolicy{}.ApplyDemand(f, tt.demand)

			if f.OnHand != tt.wantOnHand {
				t.Errorf("OnHand = %v, want %v", f.OnHand, tt.wantOnHand)
			}
			if f.Position != tt.wantOnHand {
				t.Errorf("Position = %v, want %v", f.Position, tt.wantOnHand)
			}
			if f.TotalShipped != tt.wantShipped {
				t.Errorf("TotalShipped = %v, want %v", f.TotalShipped, tt.wantShipped)
			}
			if f.TotalBackOrder != 0 || f.TotalLateSales != 0 {
				t.Errorf("lost sales touched backorder counters: %v, %v",
					f.TotalBackOrder, f.TotalLateSales)
			}
		})
	}
}

func TestLostSalesPolicyNoCarryover(t *testing.T) {
	f := &Facility{}
	p := LostSalesPolicy{}

	// Unmet demand is lost for good: a later restock serves only the
	// demand of its own period.
	p.ApplyDemand(f, 10)
	f.OnHand, f.Position = 100, 100
	p.ApplyDemand(f, 1)

	if f.TotalShipped != 1 {
		t.Errorf("TotalShipped = %v, want 1", f.TotalShipped)
	}
	if f.OnHand != 99 {
		t.Errorf("OnHand = %v, want 99", f.OnHand)
	}
}

func TestLostSalesPolicyServiceLevel(t *testing.T) {
	f := &Facility{TotalDemand: 100, TotalShipped: 80}
	got := LostSalesPolicy{}.ServiceLevel(f)
	want := 80.0 / (100.0 + domain.DemandEpsilon)
	if got != want {
		t.Errorf("ServiceLevel = %v, want %v", got, want)
	}

	idle := &Facility{}
	if got := (LostSalesPolicy{}).ServiceLevel(idle); got != 0.0 {
		t.Errorf("ServiceLevel with no demand = %v, want 0.0", got)
	}
}

func TestPolicyFromName(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{name: PolicyBackorder, wantName: PolicyBackorder},
		{name: PolicyLostSales, wantName: PolicyLostSales},
		{name: "fifo", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("name "+tt.name, func(t *testing.T) {
			p, err := PolicyFromName(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !apperror.Is(err, apperror.CodeInvalidPolicy) {
					t.Errorf("error code = %v, want %v", apperror.Code(err), apperror.CodeInvalidPolicy)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}
