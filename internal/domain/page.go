package domain

// Page is one slice of a server-side-paginated collection. Page indexes are
// zero-based. A Page is replaced wholesale on each fetch, never mutated.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
}
