package registry

import "deepbook_go/internal/domain"

// TestnetPackageIDs are the DeepBook v3 testnet deployment ids.
var TestnetPackageIDs = PackageIDs{
	DeepbookPackageID: "0xcbf4748a965d469ea3a36cf0ccc5743b96c2d0ae6dee0762ed3eca65fac07f7e",
	RegistryID:        "0x98dace830ebebd44b7a3331c00750bf758f8a4b17a27380f5bb3fbe68cb984a7",
	DeepTreasuryID:    "0x69fffdae0075f8f71f4fa793549c11079266910e8905169845af1f5d00e09dcb",
}

func testnetCoins() map[string]domain.CoinMetadata {
	coins := []domain.CoinMetadata{
		{Symbol: "DEEP", Type: "0x36dbef866a1d62bf7328989a10fb2f07d769f4ee587c0de4a0a256e57e0a58a8::deep::DEEP", Decimals: 6},
		{Symbol: "SUI", Type: "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI", Decimals: 9},
		{Symbol: "DBUSDC", Type: "0xf7152c05930480cd740d7311b5b8b45c6f488e3a53a11c3f74a6fac36a52e0d7::DBUSDC::DBUSDC", Decimals: 6},
		{Symbol: "DBUSDT", Type: "0xf7152c05930480cd740d7311b5b8b45c6f488e3a53a11c3f74a6fac36a52e0d7::DBUSDT::DBUSDT", Decimals: 6},
	}

	m := make(map[string]domain.CoinMetadata, len(coins))
	for _, c := range coins {
		m[c.Symbol] = c
	}
	return m
}

func testnetPools() map[string]domain.PoolMetadata {
	pools := []domain.PoolMetadata{
		{Pair: "DEEP_SUI", PoolID: "0x0d1b1746d220bd5ebac5231c7685480a16f1c707a46306095a4c67dc7ce4dcae",
			BaseCoin: "DEEP", QuoteCoin: "SUI", TickSize: 100_000_000, LotSize: 1_000_000, MinSize: 10_000_000},
		{Pair: "SUI_DBUSDC", PoolID: "0x520c89c6c78c566eed0ebf24f854a8c22d8fdd06a6f16ad01f108dad7f1baaea",
			BaseCoin: "SUI", QuoteCoin: "DBUSDC", TickSize: 1_000, LotSize: 100_000_000, MinSize: 1_000_000_000},
		{Pair: "DEEP_DBUSDC", PoolID: "0xee4bb0db95dc571b960354713388449f0158317e278ee8cda59ccf3dcd4b5288",
			BaseCoin: "DEEP", QuoteCoin: "DBUSDC", TickSize: 100_000, LotSize: 1_000_000, MinSize: 10_000_000},
		{Pair: "DBUSDT_DBUSDC", PoolID: "0x69cbb39a3821d681648469ff2a32b4872739d2294d30253ab958f85ace9e0491",
			BaseCoin: "DBUSDT", QuoteCoin: "DBUSDC", TickSize: 100_000, LotSize: 1_000_000, MinSize: 10_000_000},
	}

	m := make(map[string]domain.PoolMetadata, len(pools))
	for _, p := range pools {
		m[p.Pair] = p
	}
	return m
}
