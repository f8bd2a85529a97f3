package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func TestNewSQLiteRoundTrip(t *testing.T) {
	s := NewSQLite()
	require.NoError(t, s.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	defer s.Detach()

	owner := types.OwnerRef{ID: "post-1", Kind: "post"}
	c := s.Collection(owner, "comments")
	c.Add("through the public API")
	require.NoError(t, s.Flush(c))

	values, err := s.Collection(owner, "comments").Values()
	require.NoError(t, err)
	assert.Equal(t, []any{"through the public API"}, values)
}
