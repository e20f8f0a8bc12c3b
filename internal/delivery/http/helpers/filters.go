package helpers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"gatherly/internal/domain"
)

// dateLayout is the accepted format for date_from / date_to.
const dateLayout = "2006-01-02"

// ParseEventFilter reads the optional event list filters from the query
// string. A malformed value drops that one filter; it never fails the
// request. viewerID is empty for anonymous requests, which makes my_events
// and my_rsvps no-ops.
func ParseEventFilter(r *http.Request, viewerID string) domain.EventFilter {
	q := r.URL.Query()
	f := domain.EventFilter{
		CategoryID: q.Get("category"),
		Sort:       q.Get("sort"),
		Dir:        q.Get("dir"),
		Pagination: ParsePagination(r),
	}
	if s := q.Get("date_from"); s != "" {
		if t, err := time.Parse(dateLayout, s); err == nil {
			f.DateFrom = &t
		}
	}
	if s := q.Get("date_to"); s != "" {
		if t, err := time.Parse(dateLayout, s); err == nil {
			f.DateTo = &t
		}
	}
	if s := q.Get("price_max"); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			f.PriceMax = &d
		}
	}
	// Flags follow presence semantics: any non-empty value switches them on.
	f.FreeOnly = q.Get("free_only") != ""
	if viewerID != "" {
		if q.Get("my_events") != "" {
			f.CreatorID = viewerID
		}
		if q.Get("my_rsvps") != "" {
			f.RSVPUserID = viewerID
		}
	}
	return f
}
