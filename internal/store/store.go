package store

// Store is a retailer a product can be bought from.
type Store struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	URL   *string `json:"url,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Logo  *string `json:"logo,omitempty"`
}
