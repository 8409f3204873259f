package types

// Filter represents query parameters for filtering and pagination.
type Filter struct {
	Search string            `json:"search,omitempty"`
	Sort   map[string]string `json:"sort,omitempty"`
	Filter map[string]string `json:"filter,omitempty"`
	Limit  uint64            `json:"limit"`
	Offset uint64            `json:"offset"`
}

// Pagination represents pagination metadata.
type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Limit      uint64 `json:"limit"`
	Offset     uint64 `json:"offset"`
}
