// Package query parses the list endpoint's query string and filters a
// developer collection with it.
package query

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/growdev/growdevers-api/internal/types"
)

// Allowed query parameter names, in the order filters are applied.
const (
	ParamName          = "name"
	ParamEmail         = "email"
	ParamEmailIncludes = "email_includes"
	ParamAge           = "age"
	ParamRegistered    = "registered"
)

var allowed = []string{ParamName, ParamEmail, ParamEmailIncludes, ParamAge, ParamRegistered}

// ErrInvalidParams is returned when a query string is present but carries
// none of the allowed parameters.
var ErrInvalidParams = errors.New("no recognised query parameter")

// Mode decides how several active filters combine.
type Mode string

const (
	// Override applies each filter to the full collection, so only the last
	// active filter shapes the result.
	Override Mode = "override"
	// Intersect applies each filter to the output of the previous one.
	Intersect Mode = "intersect"
)

type predicate func(d types.Developer) bool

type filter struct {
	param string
	match predicate
}

// Filter is a parsed query string, ready to apply.
type Filter struct {
	filters []filter
}

// Parse builds a Filter from q. Parameters with an empty value are ignored.
// Unknown parameters are ignored as long as at least one allowed parameter
// is present; a query made only of unknown parameters fails with
// ErrInvalidParams.
func Parse(q url.Values) (Filter, error) {
	if len(q) > 0 && !hasAllowed(q) {
		return Filter{}, ErrInvalidParams
	}

	var f Filter
	for _, param := range allowed {
		v := q.Get(param)
		if v == "" {
			continue
		}
		f.filters = append(f.filters, filter{param: param, match: predicateFor(param, v)})
	}
	return f, nil
}

func hasAllowed(q url.Values) bool {
	for _, param := range allowed {
		if _, ok := q[param]; ok {
			return true
		}
	}
	return false
}

func predicateFor(param, v string) predicate {
	switch param {
	case ParamName:
		return func(d types.Developer) bool { return strings.Contains(d.Name, v) }
	case ParamEmail:
		return func(d types.Developer) bool { return d.Email == v }
	case ParamEmailIncludes:
		return func(d types.Developer) bool { return strings.Contains(d.Email, v) }
	case ParamAge:
		floor, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			// A non-numeric age compares false against everything.
			return func(types.Developer) bool { return false }
		}
		return func(d types.Developer) bool { return d.Age >= floor }
	case ParamRegistered:
		return func(d types.Developer) bool { return strconv.FormatBool(d.Registered) == v }
	}
	return func(types.Developer) bool { return true }
}

// Active returns the names of the parameters that will filter, in order.
func (f Filter) Active() []string {
	out := make([]string, 0, len(f.filters))
	for _, flt := range f.filters {
		out = append(out, flt.param)
	}
	return out
}

// Apply filters all according to mode. The input slice is never modified
// and the result is never nil.
func (f Filter) Apply(all []types.Developer, mode Mode) []types.Developer {
	out := all
	for _, flt := range f.filters {
		src := all
		if mode == Intersect {
			src = out
		}
		out = keep(src, flt.match)
	}
	if out == nil {
		return make([]types.Developer, 0)
	}
	return out
}

func keep(src []types.Developer, match predicate) []types.Developer {
	out := make([]types.Developer, 0, len(src))
	for _, d := range src {
		if match(d) {
			out = append(out, d)
		}
	}
	return out
}
