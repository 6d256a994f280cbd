package models

import "time"

// KPIs holds the scalar summary metrics of a dataset.
type KPIs struct {
	TotalRevenue  float64 `bson:"total_revenue" json:"total_revenue"`
	TotalProfit   float64 `bson:"total_profit" json:"total_profit"`
	TotalOrders   int     `bson:"total_orders" json:"total_orders"`
	AvgOrderValue float64 `bson:"avg_order_value" json:"avg_order_value"`
}

// GroupTotal is one row of a grouped aggregation view.
type GroupTotal struct {
	Key   string  `bson:"key" json:"key"`
	Total float64 `bson:"total" json:"total"`
}

// MonthlyTotal is one point of the monthly sales trend.
type MonthlyTotal struct {
	Month time.Time `bson:"month" json:"-"`
	Label string    `bson:"label" json:"month"`
	Sales float64   `bson:"sales" json:"total_sales"`
}

// ChannelShare is a sales channel total together with its share of all sales.
type ChannelShare struct {
	Channel string  `bson:"channel" json:"sales_channel"`
	Total   float64 `bson:"total" json:"total_sales"`
	Share   float64 `bson:"share" json:"share"`
}

// FilterOptions lists the values a caller can filter on.
type FilterOptions struct {
	MinDate    string   `bson:"min_date,omitempty" json:"min_date,omitempty"`
	MaxDate    string   `bson:"max_date,omitempty" json:"max_date,omitempty"`
	Regions    []string `bson:"regions" json:"regions"`
	Categories []string `bson:"categories" json:"categories"`
	Channels   []string `bson:"channels" json:"channels"`
}

// Report bundles everything the dashboard renders for one filter selection.
type Report struct {
	Source              string         `bson:"source" json:"source"`
	Rows                int            `bson:"rows" json:"rows"`
	KPIs                KPIs           `bson:"kpis" json:"kpis"`
	MonthlyTrend        []MonthlyTotal `bson:"monthly_trend" json:"monthly_trend"`
	SalesByRegion       []GroupTotal   `bson:"sales_by_region" json:"sales_by_region"`
	ProfitByCategory    []GroupTotal   `bson:"profit_by_category" json:"profit_by_category"`
	ChannelDistribution []ChannelShare `bson:"channel_distribution" json:"channel_distribution"`
	TopProducts         []GroupTotal   `bson:"top_products" json:"top_products"`
	Options             FilterOptions  `bson:"options" json:"options"`
}

// ReportSnapshot is a report persisted by the scheduler.
type ReportSnapshot struct {
	ID        string    `bson:"_id" json:"id"`
	Report    Report    `bson:"report" json:"report"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
