package service

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyConflict(t *testing.T) {
	assert.ErrorIs(t, classifyConflict(nil), ErrEmailTaken)
	assert.ErrorIs(t, classifyConflict(pgx.ErrNoRows), ErrPhoneTaken)

	err := classifyConflict(errors.New("connection reset"))
	assert.NotErrorIs(t, err, ErrEmailTaken)
	assert.NotErrorIs(t, err, ErrPhoneTaken)
	assert.ErrorContains(t, err, "connection reset")
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		require.Len(t, code, 5)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 10000)
		assert.LessOrEqual(t, n, 99999)
		seen[code] = true
	}
	// 50 draws from a 90000-code space colliding into one value would mean
	// the generator is broken.
	assert.Greater(t, len(seen), 1)
}

func TestGenerateSessionID(t *testing.T) {
	a, err := generateSessionID()
	require.NoError(t, err)
	b, err := generateSessionID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.Len(t, strings.TrimRight(a, "="), 43)
}
