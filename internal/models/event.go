package models

// EventListItem is one event row in browse/search results.
type EventListItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	PosterURL   string `json:"posterUrl,omitempty"`
	Description string `json:"description,omitempty"`
	IsFavorite  bool   `json:"isFavorite,omitempty"`
}

// TicketType is a purchasable ticket class within a performance.
type TicketType struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Capacity int     `json:"capacity,omitempty"`
}

// Performance is a scheduled showing of an event.
type Performance struct {
	ID          string       `json:"id"`
	StartAt     string       `json:"startAt"`
	TicketTypes []TicketType `json:"ticketTypes"`
}

// EventDetails is the full event view with performances and ticket types.
type EventDetails struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Performances []Performance `json:"performances"`
}

// EventSearchParams are the query parameters for GET /events/search.
type EventSearchParams struct {
	Query    string
	Category string
	FromUTC  string
	ToUTC    string
	Take     int
	Skip     int
}

// EventSearchResponse is a page of search results.
type EventSearchResponse struct {
	Items   []EventListItem `json:"items"`
	Total   int             `json:"total"`
	HasMore bool            `json:"hasMore"`
}

// FavoriteEvent is an event row on the favorites page.
type FavoriteEvent struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Category  string  `json:"category,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Date      string  `json:"date,omitempty"`
	PriceFrom float64 `json:"priceFrom,omitempty"`
}
