package quote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portfolio "github.com/ostigter/portfolio-manager"
)

func TestStatic(t *testing.T) {
	s := NewStatic(map[string]portfolio.Quote{"KO": {Price: portfolio.M(60)}})

	q, err := s.Quote(context.Background(), "KO")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(portfolio.M(60)))

	_, err = s.Quote(context.Background(), "PEP")
	assert.ErrorIs(t, err, portfolio.ErrUnknownStock)

	s.Set("PEP", portfolio.Quote{Price: portfolio.M(170)})
	q, err = s.Quote(context.Background(), "PEP")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(portfolio.M(170)))
}
