package supabase_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspector_Count(t *testing.T) {
	fb := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "0-24/25")
		w.WriteHeader(http.StatusOK)
	})
	client := newTestClient(t, fb)

	inspector, err := client.Inspector()
	require.NoError(t, err)

	count, err := inspector.Count("leads")
	require.NoError(t, err)
	assert.EqualValues(t, 25, count)

	req := fb.last(t)
	assert.Equal(t, http.MethodHead, req.Method)
	assert.Contains(t, req.Header.Get("Prefer"), "count=exact")
}
