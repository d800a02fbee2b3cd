package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewTokenSnapshotClampsInvariants(t *testing.T) {
	snap := NewTokenSnapshot(
		"0xabc", "T", "Token",
		decimal.NewFromInt(-1),
		decimal.NewFromInt(-2),
		decimal.NewFromInt(-3),
		-4,
		"  ",
		SourceMarket,
	)

	assert.True(t, snap.Price.IsZero())
	assert.True(t, snap.MarketCap.IsZero())
	assert.True(t, snap.Volume24h.IsZero())
	assert.Equal(t, int64(0), snap.Holders)
	assert.Equal(t, DefaultDescription, snap.Description)
}

func TestSyntheticSnapshot(t *testing.T) {
	snap := SyntheticSnapshot("0xABCDEF123456", "")

	assert.Equal(t, "0XABCD", snap.Symbol)
	assert.Equal(t, "Token 0xABCD", snap.Name)
	assert.Equal(t, SourceFallback, snap.Source)
	assert.True(t, snap.Price.IsZero())
	assert.True(t, snap.MarketCap.IsZero())
	assert.True(t, snap.Volume24h.IsZero())
	assert.Equal(t, int64(0), snap.Holders)
	assert.Equal(t, DefaultDescription, snap.Description)
}

func TestSyntheticSnapshotShortAddress(t *testing.T) {
	snap := SyntheticSnapshot("0xA", "explorer unreachable")
	assert.Equal(t, "0XA", snap.Symbol)
	assert.Equal(t, "Token 0xA", snap.Name)
	assert.Equal(t, "explorer unreachable", snap.Description)
}
