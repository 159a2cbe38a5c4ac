package catalog

// ServiceItem is a catalog entry with the resale price already applied. The
// upstream rate is never exposed to storefront users.
type ServiceItem struct {
	ID          uint    `json:"id"`
	ServiceID   int64   `json:"service_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Rate        float64 `json:"rate"` // price per 1000 units after margin
	Min         int     `json:"min"`
	Max         int     `json:"max"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

type ServiceListResponse struct {
	Services []ServiceItem `json:"services"`
	Total    int           `json:"total"`
}
