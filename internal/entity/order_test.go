package entity

import "testing"

func TestItemsTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []OrderItem
		want  float64
	}{
		{
			name: "sumsPriceTimesQty",
			items: []OrderItem{
				{Name: "Dosa", Price: 80, Qty: 2},
				{Name: "Coffee", Price: 30, Qty: 1},
			},
			want: 190,
		},
		{
			name:  "emptyItems",
			items: nil,
			want:  0,
		},
		{
			name: "zeroQtyContributesNothing",
			items: []OrderItem{
				{Name: "Dosa", Price: 80, Qty: 0},
				{Name: "Coffee", Price: 30, Qty: 2},
			},
			want: 60,
		},
		{
			name: "zeroPriceContributesNothing",
			items: []OrderItem{
				{Name: "Water", Price: 0, Qty: 3},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ItemsTotal(tt.items); got != tt.want {
				t.Errorf("ItemsTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeleted(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{name: "deleted", status: StatusDeleted, want: true},
		{name: "incoming", status: StatusIncoming, want: false},
		{name: "completed", status: StatusCompleted, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: tt.status}
			if got := o.Deleted(); got != tt.want {
				t.Errorf("Deleted() = %v, want %v", got, tt.want)
			}
		})
	}
}
