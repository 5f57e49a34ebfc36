package domain

// KPI compares a metric for the current period against the previous one.
type KPI struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	ChangePercent float64 `json:"changePercent"`
}

// ProductSales summarises how well one product sold.
type ProductSales struct {
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	QuantitySold int    `json:"quantitySold"`
}

// LowStockAlert flags a product whose stock dropped below the reorder level.
type LowStockAlert struct {
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	CurrentStock int    `json:"currentStock"`
}

// DashboardSummary is the report/summary payload backing the home page.
type DashboardSummary struct {
	TodaySales         KPI             `json:"todaySales"`
	TodayOrders        KPI             `json:"todayOrders"`
	AverageOrderValue  KPI             `json:"averageOrderValue"`
	TopSellingProducts []ProductSales  `json:"topSellingProducts"`
	LowStockAlerts     []LowStockAlert `json:"lowStockAlerts"`
}
