package supabase

import (
	"context"
	"net/http"
)

var deletedResponse = Response(`{"success":true}`)

func (c *Client) tableURL(table string) string {
	return c.config.DataURL() + "/" + table
}

// Select reads rows from table.
func (c *Client) Select(ctx context.Context, table string, opts QueryOptions) (Response, error) {
	url := withQuery(c.tableURL(table), opts.params())

	req, err := c.newJSONRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, body, err := c.send(req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		return nil, newSelectError(resp.StatusCode, reasonPhrase(resp), body)
	}
	return Response(body), nil
}

// Insert writes data, a single row or a slice of rows, into table and returns
// the inserted representation.
func (c *Client) Insert(ctx context.Context, table string, data any) (Response, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, c.tableURL(table), data)
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, newRequestError("insert", "Insert failed", status, body)
	}
	return Response(body), nil
}

// Update patches every row matching filters with data.
func (c *Client) Update(ctx context.Context, table string, data any, filters []Filter) (Response, error) {
	var q queryParams
	q.addFilters(filters)

	req, err := c.newJSONRequest(ctx, http.MethodPatch, withQuery(c.tableURL(table), q), data)
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, newRequestError("update", "Update failed", status, body)
	}
	return Response(body), nil
}

// Delete removes every row matching filters. A 204 response yields
// {"success":true}; otherwise the deleted representation is returned.
func (c *Client) Delete(ctx context.Context, table string, filters []Filter) (Response, error) {
	var q queryParams
	q.addFilters(filters)

	req, err := c.newJSONRequest(ctx, http.MethodDelete, withQuery(c.tableURL(table), q), nil)
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, newRequestError("delete", "Delete failed", status, body)
	}
	if status == http.StatusNoContent {
		return deletedResponse, nil
	}
	return Response(body), nil
}
