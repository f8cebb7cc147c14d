package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"salama/internal/dataprocessing"
	apierrors "salama/internal/errors"
	"salama/pkg/contracts/domain"
)

var validate = validator.New()

// dateLayouts accepted in filter query parameters.
var filterDateLayouts = []string{time.DateOnly, "2006/01/02", "02-01-2006"}

// parseFilters builds domain filters from query parameters. Unknown
// parameters are ignored; malformed values are an error, not a silent skip.
func parseFilters(r *http.Request) (*domain.Filters, *apierrors.APIError) {
	q := r.URL.Query()
	f := &domain.Filters{
		Priority:             q.Get("priority"),
		RiskLevel:            q.Get("risk_level"),
		Search:               q.Get("search"),
		ActivitySort:         domain.ActivitySort(q.Get("sort")),
		RecommendationFilter: q.Get("recommendation"),
	}

	if v := q.Get("date_from"); v != "" {
		ts, err := parseFilterDate(v)
		if err != nil {
			return nil, apierrors.ErrValidation("date_from", err.Error())
		}
		f.DateFrom = &ts
	}
	if v := q.Get("date_to"); v != "" {
		ts, err := parseFilterDate(v)
		if err != nil {
			return nil, apierrors.ErrValidation("date_to", err.Error())
		}
		f.DateTo = &ts
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return nil, apierrors.ErrValidation("year", "must be an integer")
		}
		f.Year = year
	}
	if v := q.Get("sectors"); v != "" {
		f.Sectors = splitList(v)
	}
	if v := q.Get("statuses"); v != "" {
		f.Statuses = splitList(v)
	}

	if err := validate.Struct(f); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]apierrors.ValidationError, 0, len(verrs))
			for _, ve := range verrs {
				fields = append(fields, apierrors.ValidationError{
					Field:   ve.Field(),
					Message: fmt.Sprintf("failed %q validation", ve.Tag()),
				})
			}
			return nil, apierrors.NewValidationErrors(fields)
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}
	return f, nil
}

// pagination is the limit/offset window applied to dataset rows. A zero
// limit means no cap.
type pagination struct {
	Limit  int
	Offset int
}

func parsePagination(r *http.Request) (pagination, *apierrors.APIError) {
	q := r.URL.Query()
	var p pagination
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, apierrors.ErrValidation("limit", "must be a non-negative integer")
		}
		p.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, apierrors.ErrValidation("offset", "must be a non-negative integer")
		}
		p.Offset = n
	}
	return p, nil
}

func (p pagination) slice(rows [][]dataprocessing.Value) [][]dataprocessing.Value {
	if p.Offset >= len(rows) {
		return nil
	}
	out := rows[p.Offset:]
	if p.Limit > 0 && p.Limit < len(out) {
		out = out[:p.Limit]
	}
	return out
}

func parseFilterDate(v string) (time.Time, error) {
	for _, layout := range filterDateLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, expected YYYY-MM-DD", v)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
