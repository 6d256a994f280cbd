package generator

// Product is a catalog entry the generator sells.
type Product struct {
	Category  string
	Name      string
	BasePrice float64
	MarginPct float64
}

const categoryGrocery = "Grocery"

// Regions lists the sales regions in draw order.
var Regions = []string{"North", "South", "East", "West"}

// CountriesByRegion lists the countries a region may sell into.
var CountriesByRegion = map[string][]string{
	"North": {"USA", "Canada"},
	"South": {"Brazil", "Argentina"},
	"East":  {"China", "Japan", "India"},
	"West":  {"UK", "Germany", "France"},
}

// CustomerSegments lists the customer segments.
var CustomerSegments = []string{"Consumer", "Corporate", "Home Office"}

// DefaultCatalog is the product list used unless WithCatalog overrides it.
var DefaultCatalog = []Product{
	{"Electronics", "Smartphone X", 800, 0.25},
	{"Electronics", "Laptop Pro", 1200, 0.22},
	{"Electronics", "Wireless Headphones", 150, 0.35},
	{"Electronics", "4K Monitor", 400, 0.28},
	{"Furniture", "Ergonomic Chair", 250, 0.3},
	{"Furniture", "Standing Desk", 500, 0.32},
	{"Furniture", "Bookshelf", 120, 0.27},
	{"Clothing", "Men's Jacket", 90, 0.4},
	{"Clothing", "Women's Dress", 80, 0.42},
	{"Clothing", "Running Shoes", 110, 0.38},
	{categoryGrocery, "Organic Coffee Beans", 12, 0.3},
	{categoryGrocery, "Olive Oil Premium", 18, 0.28},
	{categoryGrocery, "Breakfast Cereal", 6, 0.25},
}
