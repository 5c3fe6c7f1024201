package supabase

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filter is one equality predicate. Value is sent verbatim; callers add any
// operator prefix the backend expects (for example "eq.1").
type Filter struct {
	Column string
	Value  string
}

// Match builds a Filter, formatting value with its default text form.
func Match(column string, value any) Filter {
	return Filter{Column: column, Value: fmt.Sprint(value)}
}

// Eq builds an equality Filter with the backend's "eq." operator.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: "eq." + fmt.Sprint(value)}
}

// Order sorts a read by one column.
type Order struct {
	Column     string
	Descending bool
}

// Asc and Desc build an Order.
func Asc(column string) *Order  { return &Order{Column: column} }
func Desc(column string) *Order { return &Order{Column: column, Descending: true} }

func (o Order) String() string {
	if o.Descending {
		return o.Column + ".desc"
	}
	return o.Column + ".asc"
}

// ParseOrder reads the "column.asc" / "column.desc" form. A bare column sorts
// ascending.
func ParseOrder(s string) (*Order, error) {
	if s == "" {
		return nil, fmt.Errorf("empty order clause")
	}
	column, dir, found := strings.Cut(s, ".")
	if !found {
		return Asc(s), nil
	}
	switch dir {
	case "asc":
		return Asc(column), nil
	case "desc":
		return Desc(column), nil
	}
	return nil, fmt.Errorf("invalid order direction %q", dir)
}

// QueryOptions describes a read. Zero values contribute no query parameter.
type QueryOptions struct {
	Columns []string
	Filters []Filter
	Order   *Order
	Limit   int
	Offset  int
}

// queryParams is an ordered list of query parameters. url.Values sorts its
// keys on Encode, which would lose the order the backend sees them in.
type queryParams [][2]string

func (q *queryParams) add(key, value string) {
	*q = append(*q, [2]string{key, value})
}

func (q *queryParams) addFilters(filters []Filter) {
	for _, f := range filters {
		q.add(f.Column, f.Value)
	}
}

func (q queryParams) encode() string {
	var sb strings.Builder
	for i, kv := range q {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv[0]))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv[1]))
	}
	return sb.String()
}

func (o QueryOptions) params() queryParams {
	var q queryParams
	if len(o.Columns) > 0 {
		q.add("select", strings.Join(o.Columns, ","))
	}
	q.addFilters(o.Filters)
	if o.Order != nil {
		q.add("order", o.Order.String())
	}
	if o.Limit != 0 {
		q.add("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset != 0 {
		q.add("offset", strconv.Itoa(o.Offset))
	}
	return q
}

// withQuery appends the encoded parameters to base, if there are any.
func withQuery(base string, q queryParams) string {
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.encode()
}

// Record is a row as returned by the backend.
type Record map[string]any

// Response is a JSON body returned by the backend, untouched.
type Response json.RawMessage

// MarshalJSON lets a Response be embedded in other JSON documents as-is.
func (r Response) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// Decode unmarshals the body into v.
func (r Response) Decode(v any) error {
	return json.Unmarshal(r, v)
}

// Records decodes the body as a list of rows. A single object is returned as
// a one-element list.
func (r Response) Records() ([]Record, error) {
	trimmed := strings.TrimSpace(string(r))
	if strings.HasPrefix(trimmed, "{") {
		var rec Record
		if err := json.Unmarshal(r, &rec); err != nil {
			return nil, err
		}
		return []Record{rec}, nil
	}
	var recs []Record
	if err := json.Unmarshal(r, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
