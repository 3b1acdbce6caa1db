package blog

// List pagination bounds.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Sort orders accepted by listing.
const (
	SortNewest   = "newest"
	SortFeatured = "featured"
)

// ListFilter is the raw listing input as received from the caller.
type ListFilter struct {
	Category string
	Search   string
	AuthorID string
	Status   string // honored for admins only
	Approved *bool  // honored for admins only
	Sort     string
	Page     int
	Limit    int
}

// ListQuery is a resolved, role-checked store query. Repositories translate
// it into their native filter representation. The visibility constraints are
// part of the query itself so hidden items never leak through pagination
// counts.
type ListQuery struct {
	Category string
	Search   string
	AuthorID string
	Status   Status // empty means any status
	Approved *bool  // nil means any approval state
	Featured bool   // order by views before recency
	Skip     int64
	Limit    int64
}

// PageInfo is the pagination metadata returned with every listing.
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPageInfo derives pagination metadata from the total match count.
func NewPageInfo(page, limit int, total int64) PageInfo {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PageInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}

// ResolveListFilter validates f and applies the role-aware defaults: callers
// below admin are always constrained to published-and-approved content, no
// matter what they asked for. Page and limit are clamped, never rejected.
func ResolveListFilter(f ListFilter, actor Actor) (ListQuery, error) {
	if f.Category != "" && !ValidCategory(f.Category) {
		return ListQuery{}, ErrValidation("unknown category", map[string]string{"category": "must be one of the known categories"})
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := ListQuery{
		Category: f.Category,
		Search:   f.Search,
		AuthorID: f.AuthorID,
		Featured: f.Sort == SortFeatured,
		Skip:     int64(page-1) * int64(limit),
		Limit:    int64(limit),
	}

	if actor.Role == RoleAdmin {
		if f.Status != "" {
			if !ValidStatus(Status(f.Status)) {
				return ListQuery{}, ErrValidation("unknown status", map[string]string{"status": "must be draft, published or archived"})
			}
			q.Status = Status(f.Status)
		}
		q.Approved = f.Approved
	} else {
		q.Status = StatusPublished
		approved := true
		q.Approved = &approved
	}
	return q, nil
}

// PageOf recovers the 1-based page a resolved query represents.
func (q ListQuery) PageOf() int {
	if q.Limit <= 0 {
		return 1
	}
	return int(q.Skip/q.Limit) + 1
}
