package supabase

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// Inspector answers questions about tables that the row API does not expose,
// such as exact row counts.
type Inspector struct {
	client *supa.Client
}

// Inspector returns an Inspector authorised like c.
func (c *Client) Inspector() (*Inspector, error) {
	client, err := supa.NewClient(c.config.base(), c.config.PublicKey, &supa.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + c.bearer(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Inspector{client: client}, nil
}

// Count returns the number of rows in table visible to the caller.
func (i *Inspector) Count(table string) (int64, error) {
	_, count, err := i.client.From(table).Select("*", "exact", true).Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
