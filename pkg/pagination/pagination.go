package pagination

const (
	// DefaultLimit is used when the caller does not ask for a page size
	DefaultLimit = 10
	// MaxLimit caps a single page
	MaxLimit = 100
)

// OffsetParams represents limit/offset pagination input
type OffsetParams struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

// DefaultOffsetParams returns default pagination values
func DefaultOffsetParams() *OffsetParams {
	return &OffsetParams{
		Limit:  DefaultLimit,
		Offset: 0,
	}
}

// Validate ensures pagination parameters are within valid ranges
func (p *OffsetParams) Validate() {
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// HasNext reports whether rows remain after this page
func (p *OffsetParams) HasNext(total int64) bool {
	return int64(p.Offset+p.Limit) < total
}

// OffsetResult is a page of items together with the size of the whole
// filtered set, independent of limit and offset.
type OffsetResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasNext    bool  `json:"has_next"`
}

// NewOffsetResult creates a new paginated result
func NewOffsetResult[T any](items []T, params *OffsetParams, total int64) *OffsetResult[T] {
	if items == nil {
		items = []T{}
	}
	return &OffsetResult[T]{
		Items:      items,
		TotalCount: total,
		Limit:      params.Limit,
		Offset:     params.Offset,
		HasNext:    params.HasNext(total),
	}
}
