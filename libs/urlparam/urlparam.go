package urlparam

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/stoewer/go-strcase"
)

// Param is the URL parameter
type Param string

const (
	ParamOffset Param = "offset"
	ParamLimit  Param = "limit"
	ParamOrder  Param = "order"
	ParamSortBy Param = "sortBy"
)

var fieldNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// Options is what the router passes on top of a filtered list query.
// Offset/limit page, order sorts, sortBy picks the column.
type Options struct {
	Offset *int
	Limit  *int
	Order  *string // "asc" or "desc"
	SortBy *string // snake_cased column name
}

// Parse pulls pagination and sorting out of the query values. Unknown
// parameters are ignored (they may be field filters for someone else).
// sortBy arrives camelCased like the JSON fields and is snake_cased here
// to match the column.
func Parse(values url.Values) (*Options, error) {
	opts := &Options{}

	if v := values.Get(string(ParamOffset)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid offset %q", v)
		}
		opts.Offset = &n
	}

	if v := values.Get(string(ParamLimit)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid limit %q", v)
		}
		opts.Limit = &n
	}

	if v := values.Get(string(ParamOrder)); v != "" {
		v = strings.ToLower(v)
		if v != "asc" && v != "desc" {
			return nil, fmt.Errorf("invalid order %q", v)
		}
		opts.Order = &v
	}

	if v := values.Get(string(ParamSortBy)); v != "" {
		if !fieldNameRegex.MatchString(v) {
			return nil, fmt.Errorf("invalid sortBy %q", v)
		}
		snake := strcase.SnakeCase(v)
		opts.SortBy = &snake
	}

	return opts, nil
}
