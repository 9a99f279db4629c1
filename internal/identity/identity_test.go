package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeERC8004(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "erc8004:1:42", "erc8004:1:42"},
		{"leading zeros stripped", "erc8004:01:007", "erc8004:1:7"},
		{"zero ids allowed", "erc8004:0:0", "erc8004:0:0"},
		{"large ids", "erc8004:8453:123456789", "erc8004:8453:123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEth(t *testing.T) {
	got, err := Normalize("eth:0xABCdef0123")
	require.NoError(t, err)
	assert.Equal(t, "eth:0xabcdef0123", got)
}

func TestNormalizeAIRC(t *testing.T) {
	got, err := Normalize("airc:  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "airc:alice", got)
}

func TestNormalizeIdempotent(t *testing.T) {
	ids := []string{
		"erc8004:01:042",
		"eth:0xABC123",
		"airc: MixedCase ",
	}

	for _, id := range ids {
		once, err := Normalize(id)
		require.NoError(t, err)

		twice, err := Normalize(once)
		require.NoError(t, err)

		assert.Equal(t, once, twice, "Normalize must be idempotent for %q", id)
	}
}

func TestNormalizeNamespacePreserving(t *testing.T) {
	tests := []struct {
		in     string
		prefix string
	}{
		{"erc8004:5:9", PrefixERC8004},
		{"eth:0xFF", PrefixEth},
		{"airc:Bob", PrefixAIRC},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.in)
		require.NoError(t, err)
		assert.True(t, len(got) >= len(tt.prefix) && got[:len(tt.prefix)] == tt.prefix,
			"normalized id %q must keep namespace %q", got, tt.prefix)
	}
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown namespace", "twitter:alice"},
		{"empty", ""},
		{"erc8004 missing field", "erc8004:1"},
		{"erc8004 extra field", "erc8004:1:2:3"},
		{"erc8004 non-numeric chain", "erc8004:mainnet:1"},
		{"erc8004 non-numeric agent", "erc8004:1:atlas"},
		{"erc8004 negative agent", "erc8004:1:-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in)
			require.Error(t, err)
			assert.True(t, IsInvalidIdentifier(err))
		})
	}
}

func TestComputeDyadIDOrderIndependent(t *testing.T) {
	ab, err := ComputeDyadID("airc:alice", "eth:0xABC")
	require.NoError(t, err)

	ba, err := ComputeDyadID("eth:0xABC", "airc:alice")
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.Equal(t, "harp:airc:alice:eth:0xabc", ab)
}

func TestComputeDyadIDRejectsDegeneratePair(t *testing.T) {
	// Distinct raw strings that normalize to the same id.
	_, err := ComputeDyadID("airc:Alice", "airc:alice ")
	require.Error(t, err)
	assert.True(t, IsDegenerateDyad(err))
	assert.False(t, IsInvalidIdentifier(err))
}

func TestComputeDyadIDPropagatesInvalidIdentifier(t *testing.T) {
	_, err := ComputeDyadID("airc:alice", "bogus:thing")
	require.Error(t, err)
	assert.True(t, IsInvalidIdentifier(err))
}

func TestMustNormalizePanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustNormalize("bogus:thing") })
}
