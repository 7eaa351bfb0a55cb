// Package scale converts human decimal amounts to chain fixed-point integers
// and back. Conversions are exact: an amount that cannot be represented at
// the target precision is rejected, never rounded.
package scale

import (
	"fmt"
	"math/big"

	"deepbook_go/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	// FloatScalar is the fixed-point scalar used by pool price encoding.
	FloatScalar = 1_000_000_000

	// DeepScalar is the base-unit scalar of the DEEP coin (6 decimals).
	DeepScalar = 1_000_000
)

// ToChainAmount converts a human amount into chain base units of the coin.
// Fails with ErrPrecisionLoss if the amount has more fractional digits than
// the coin carries.
func ToChainAmount(amount decimal.Decimal, coin domain.CoinMetadata) (uint64, error) {
	if amount.Sign() <= 0 {
		return 0, fmt.Errorf("amount %s for %s: must be positive", amount, coin.Symbol)
	}
	return toRaw(amount.Shift(coin.Decimals), coin.Symbol)
}

// FromChainAmount is the exact inverse of ToChainAmount.
func FromChainAmount(raw uint64, coin domain.CoinMetadata) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -coin.Decimals)
}

// ToChainPrice converts a human price (quote per base) into the pool's
// fixed-point representation: price * FloatScalar * quoteScalar / baseScalar.
// The result must be exact and a multiple of the pool tick size.
func ToChainPrice(price decimal.Decimal, pool domain.PoolMetadata, base, quote domain.CoinMetadata) (uint64, error) {
	if price.Sign() <= 0 {
		return 0, fmt.Errorf("price %s for %s: must be positive", price, pool.Pair)
	}

	// Shift by (FloatScalar digits + quote decimals - base decimals).
	scaled := price.Shift(9 + quote.Decimals - base.Decimals)
	raw, err := toRaw(scaled, pool.Pair)
	if err != nil {
		return 0, err
	}

	if pool.TickSize == 0 || raw%pool.TickSize != 0 {
		return 0, fmt.Errorf("price %s on %s (tick %d): %w",
			price, pool.Pair, pool.TickSize, domain.ErrTickAlignment)
	}
	return raw, nil
}

// ToChainQuantity converts a human base-coin quantity into chain base units,
// enforcing lot alignment and the pool minimum order size.
func ToChainQuantity(qty decimal.Decimal, pool domain.PoolMetadata, base domain.CoinMetadata) (uint64, error) {
	if qty.Sign() <= 0 {
		return 0, fmt.Errorf("quantity %s for %s: must be positive", qty, pool.Pair)
	}

	raw, err := toRaw(qty.Shift(base.Decimals), pool.Pair)
	if err != nil {
		return 0, err
	}

	if pool.LotSize == 0 || raw%pool.LotSize != 0 {
		return 0, fmt.Errorf("quantity %s on %s (lot %d): %w",
			qty, pool.Pair, pool.LotSize, domain.ErrLotAlignment)
	}
	if raw < pool.MinSize {
		return 0, fmt.Errorf("quantity %s on %s (min %d): %w",
			qty, pool.Pair, pool.MinSize, domain.ErrBelowMinimumSize)
	}
	return raw, nil
}

// toRaw requires the shifted decimal to be a non-negative integer that fits
// in uint64.
func toRaw(shifted decimal.Decimal, what string) (uint64, error) {
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%s: %w", what, domain.ErrPrecisionLoss)
	}
	bi := shifted.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("%s: value %s overflows chain units", what, shifted)
	}
	return bi.Uint64(), nil
}
