package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsQueryRejected(t *testing.T) {
	wrapped := fmt.Errorf("search: %w", &QueryRejectedError{StatusCode: 400, Body: "bad wildcard"})

	rejected, ok := AsQueryRejected(wrapped)
	require.True(t, ok)
	assert.Equal(t, 400, rejected.StatusCode)
	assert.Equal(t, "search: bad wildcard", wrapped.Error())
	assert.Equal(t, "elasticsearch rejected request with status 400: bad wildcard", rejected.Describe())

	_, ok = AsQueryRejected(ErrNullMapping)
	assert.False(t, ok)
}
