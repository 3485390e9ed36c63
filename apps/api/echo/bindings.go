package echoapi

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind parses the ordering query parameter. Fields end up in an ORDER BY
// clause, so only names in the allowed set are accepted; anything else
// fails the request.
func (ord *Ordering) Bind(ctx echo.Context, allowed ...string) error {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return nil
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return nil
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}

		known := false
		for _, a := range allowed {
			if field == a {
				known = true
				break
			}
		}
		if !known {
			return core.NewValidationError(nil, core.FieldError{
				Field: orderingParam, Error: fmt.Sprintf("cannot order by %q", field),
			})
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
	return nil
}

// bindFilter binds the query string into filter, rejecting any parameter
// outside the allowed set. Unknown keys fail the request instead of being
// dropped, so a misspelled filter never silently widens a result set.
func bindFilter(ctx echo.Context, filter interface{}, allowed ...string) error {
	for key := range ctx.QueryParams() {
		if key == orderingParam {
			continue
		}
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			return core.NewValidationError(nil, core.FieldError{Field: key, Error: "unrecognized filter"})
		}
	}
	return ctx.Bind(filter)
}
