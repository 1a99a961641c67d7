package dto

import "github.com/vsinha/itam/pkg/domain/repositories"

// Page is a paginated listing as returned by the API
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// NewPage converts a repository result, mapping each record with convert
func NewPage[S, T any](result repositories.PageResult[S], convert func(S) T) Page[T] {
	items := make([]T, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, convert(item))
	}
	return Page[T]{
		Items: items,
		Total: result.Total,
		Page:  result.Page.Normalize().Number,
		Pages: result.Pages(),
	}
}

// DeprecationReport lists the assets whose support ended before Today
type DeprecationReport struct {
	Today  string         `json:"today"`
	Assets []AssetSummary `json:"assets"`
}
