package pagination

const (
	DefaultPage     = 1
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Params carries the caller-requested bounds. Zero or negative values mean
// "not supplied" and fall back to defaults.
type Params struct {
	Page     int
	PageSize int
}

type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// Normalize resolves the effective page and page size: defaults for absent
// values, page size clamped to MaxPageSize.
func Normalize(p Params) (page, pageSize int) {
	page = p.Page
	if page <= 0 {
		page = DefaultPage
	}
	pageSize = p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Bounds returns the limit/offset pair for the normalized params.
func Bounds(p Params) (limit, offset int) {
	page, pageSize := Normalize(p)
	return pageSize, (page - 1) * pageSize
}

// NewPage builds the uniform listing envelope. It re-normalizes the params so
// the reported page and pageSize are always the effective values, including
// on short-circuit paths that never ran a query.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	page, pageSize := Normalize(p)
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}
