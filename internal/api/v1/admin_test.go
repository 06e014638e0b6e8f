package v1

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateLookup(t *testing.T) {
	found, err := duplicateLookup(nil)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = duplicateLookup(pgx.ErrNoRows)
	require.NoError(t, err)
	assert.False(t, found)

	lookupErr := errors.New("connection reset")
	found, err = duplicateLookup(lookupErr)
	assert.False(t, found)
	assert.ErrorIs(t, err, lookupErr)
}
