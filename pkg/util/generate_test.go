package util

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandStr(t *testing.T) {
	s := RandStr(10)
	assert.Len(t, s, 10)
	assert.NotEqual(t, s, RandStr(10))
}

func TestGenerateOTP_Bounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateOTP(100000, 900000)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, code, 100000)
		assert.LessOrEqual(t, code, 900000)
	}
}

func TestGenerateOTP_InvalidBounds(t *testing.T) {
	_, err := GenerateOTP(10, 10)
	assert.Error(t, err)
}

func TestGenerateTxnID(t *testing.T) {
	id, err := GenerateTxnID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "txn-"))
	assert.Len(t, id, len("txn-")+16)
	assert.Equal(t, strings.ToLower(id), id)
}

func TestGenerateWalletNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		n, err := GenerateWalletNumber(100000, 900000)
		require.NoError(t, err)

		s := strconv.FormatInt(n, 10)
		assert.Len(t, s, 10)
		assert.True(t, strings.HasPrefix(s, "2267"))
	}
}
