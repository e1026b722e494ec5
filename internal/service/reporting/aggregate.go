package reporting

import (
	"sort"
	"strconv"

	"github.com/canteenhq/restro/internal/entity"
	"github.com/canteenhq/restro/internal/timewindow"
)

// SalesSummary totals the revenue and order count of a window.
type SalesSummary struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// PeakHour is the busiest civil hour of a window. Hour is the decimal
// hour-of-day, or "-" when the window holds no orders.
type PeakHour struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// DishCount ranks a dish by total quantity ordered.
type DishCount struct {
	Name  string `json:"_id"`
	Count int    `json:"count"`
}

// CustomerOrders counts orders per customer name.
type CustomerOrders struct {
	Name   string `json:"_id"`
	Orders int    `json:"orders"`
}

// fallbackDishName labels items that arrived without a name.
const fallbackDishName = "Unnamed Item"

// SalesTotal sums stored order totals over the window's orders.
func SalesTotal(orders []entity.Order) SalesSummary {
	var sum SalesSummary
	for _, o := range orders {
		sum.Total += o.Total
	}
	sum.Count = len(orders)
	return sum
}

// BusiestHour buckets orders by the civil hour of their creation and returns
// the fullest bucket. Ties resolve to the hour seen first in iteration
// order; accumulation is insertion-ordered so the result is reproducible.
func BusiestHour(orders []entity.Order) PeakHour {
	counts := make(map[int]int)
	var seen []int
	for _, o := range orders {
		h := timewindow.HourOf(o.CreatedAt)
		if _, ok := counts[h]; !ok {
			seen = append(seen, h)
		}
		counts[h]++
	}

	peak := PeakHour{Hour: "-", Count: 0}
	for _, h := range seen {
		if counts[h] > peak.Count {
			peak = PeakHour{Hour: strconv.Itoa(h), Count: counts[h]}
		}
	}
	return peak
}

// TopDish sums quantities per distinct item name across all orders and
// returns the single best seller, first-seen winning ties. Nil when there
// are no items at all.
func TopDish(orders []entity.Order) *DishCount {
	counts := make(map[string]int)
	var seen []string
	for _, o := range orders {
		for _, it := range o.Items {
			name := it.Name
			if name == "" {
				name = fallbackDishName
			}
			if _, ok := counts[name]; !ok {
				seen = append(seen, name)
			}
			counts[name] += it.Qty
		}
	}

	var top *DishCount
	for _, name := range seen {
		if top == nil || counts[name] > top.Count {
			top = &DishCount{Name: name, Count: counts[name]}
		}
	}
	return top
}

// RepeatCustomers counts orders per non-empty customer name and ranks them
// descending by count. Equal counts keep first-seen order.
func RepeatCustomers(orders []entity.Order) []CustomerOrders {
	counts := make(map[string]int)
	var seen []string
	for _, o := range orders {
		if o.CustomerName == "" {
			continue
		}
		if _, ok := counts[o.CustomerName]; !ok {
			seen = append(seen, o.CustomerName)
		}
		counts[o.CustomerName]++
	}

	ranked := make([]CustomerOrders, 0, len(seen))
	for _, name := range seen {
		ranked = append(ranked, CustomerOrders{Name: name, Orders: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Orders > ranked[j].Orders
	})
	return ranked
}
