package floor

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	salesWindowDays = 30
	recentLimit     = 5
	popularLimit    = 5
)

type Performance struct {
	Overall      OverallPerformance `json:"overall_performance"`
	SalesDetails []DailySales       `json:"sales_details"`
	Today        TodayPerformance   `json:"todays_performance"`
	RecentOrders []Order            `json:"recent_orders"`
	Popular      []PopularDish      `json:"popular_dishes"`
}

type OverallPerformance struct {
	Revenue       decimal.Decimal `json:"revenue"`
	TotalCustomer int             `json:"total_customer"`
	EventCount    int             `json:"event_count"`
}

type TodayPerformance struct {
	Earning       decimal.Decimal `json:"today_earning"`
	InProgress    int             `json:"in_progress"`
	TotalCustomer int             `json:"total_customer"`
	TotalDishes   int             `json:"total_dishes"`
	ActiveOrders  int             `json:"active_orders"`
}

type DailySales struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"daily_total"`
}

type PopularDish struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// BuildPerformance summarizes today's trading and the trailing sales window
// from the order collection. Revenue counts every order created today,
// whatever its status.
func BuildPerformance(orders []Order, now time.Time, loc *time.Location) Performance {
	if loc == nil {
		loc = time.Local
	}

	todayStart := startOfDay(now, loc)
	tomorrowStart := todayStart.AddDate(0, 0, 1)
	windowStart := todayStart.AddDate(0, 0, -salesWindowDays)

	perf := Performance{
		Overall: OverallPerformance{Revenue: decimal.Zero},
		Today:   TodayPerformance{Earning: decimal.Zero},
	}

	customers := make(map[string]struct{})
	daily := make(map[time.Time]decimal.Decimal)
	popular := make(map[string]int)

	for _, o := range orders {
		switch o.Status {
		case OrderInProgress:
			perf.Today.InProgress++
			perf.Today.ActiveOrders++
		case OrderPending:
			perf.Today.ActiveOrders++
		}

		for _, item := range o.Items {
			popular[item.Name]++
		}

		created := o.CreatedAt.In(loc)
		if !created.Before(windowStart) && created.Before(tomorrowStart) {
			day := startOfDay(created, loc)
			daily[day] = daily[day].Add(o.TotalAmount)
		}

		if created.Before(todayStart) || !created.Before(tomorrowStart) {
			continue
		}

		perf.Overall.Revenue = perf.Overall.Revenue.Add(o.TotalAmount)
		perf.Overall.EventCount++
		customers[o.CustomerName] = struct{}{}
		for _, item := range o.Items {
			perf.Today.TotalDishes += item.Quantity
		}
	}

	perf.Overall.TotalCustomer = len(customers)
	perf.Today.Earning = perf.Overall.Revenue
	perf.Today.TotalCustomer = len(customers)

	perf.SalesDetails = make([]DailySales, 0, len(daily))
	for day, total := range daily {
		perf.SalesDetails = append(perf.SalesDetails, DailySales{Date: day, Total: total})
	}
	sort.Slice(perf.SalesDetails, func(i, j int) bool {
		return perf.SalesDetails[i].Date.Before(perf.SalesDetails[j].Date)
	})

	perf.RecentOrders = recentOrders(orders, recentLimit)
	perf.Popular = popularDishes(popular, popularLimit)

	return perf
}

func recentOrders(orders []Order, limit int) []Order {
	sorted := make([]Order, len(orders))
	for i, o := range orders {
		sorted[i] = o.clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// popularDishes ranks by line count, ties broken by name.
func popularDishes(counts map[string]int, limit int) []PopularDish {
	out := make([]PopularDish, 0, len(counts))
	for name, n := range counts {
		out = append(out, PopularDish{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
