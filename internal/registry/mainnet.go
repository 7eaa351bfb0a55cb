package registry

import "deepbook_go/internal/domain"

// MainnetPackageIDs are the DeepBook v3 mainnet deployment ids.
var MainnetPackageIDs = PackageIDs{
	DeepbookPackageID: "0x2c8d603bc51326b8c13cef9dd07031a408a48dddb541963357661df5d3204809",
	RegistryID:        "0xaf16199a2dff736e9f07a845f23c5da6df6f756eddb631aed9d24a93efc4549d",
	DeepTreasuryID:    "0x032abf8948dda67a271bcc18e776dbbcfb0d58c8d288a700ff0d5521e57a1ffe",
}

func mainnetCoins() map[string]domain.CoinMetadata {
	coins := []domain.CoinMetadata{
		{Symbol: "DEEP", Type: "0xdeeb7a4662eec9f2f3def03fb937a663dddaa2e215b8078a284d026b7946c270::deep::DEEP", Decimals: 6},
		{Symbol: "SUI", Type: "0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI", Decimals: 9},
		{Symbol: "USDC", Type: "0xdba34672e30cb065b1f93e3ab55318768fd6fef66c15942c9f7cb846e2f900e7::usdc::USDC", Decimals: 6},
		{Symbol: "WUSDC", Type: "0x5d4b302506645c37ff133b98c4b50a5ae14841659738d6d733d59d0d217a93bf::coin::COIN", Decimals: 6},
		{Symbol: "WETH", Type: "0xaf8cd5edc19c4512f4259f0bee101a40d41ebed738ade5874359610ef8eeced5::coin::COIN", Decimals: 8},
		{Symbol: "BETH", Type: "0xd0e89b2af5e4910726fbcd8b8dd37bb79b29e5f83f7491bca830e94f7f226d29::eth::ETH", Decimals: 8},
		{Symbol: "WBTC", Type: "0x027792d9fed7f9844eb4839566001bb6f6cb4804f66aa2da6fe1ee242d896881::coin::COIN", Decimals: 8},
		{Symbol: "WUSDT", Type: "0xc060006111016b8a020ad5b33834984a437aaa7d3c74c18e09a95d48aceab08c::coin::COIN", Decimals: 6},
		{Symbol: "NS", Type: "0x5145494a5f5100e645e4b0aa950fa6b68f614e8c59e17bc5ded3495123a79178::ns::NS", Decimals: 6},
		{Symbol: "TYPUS", Type: "0xf82dc05634970553615eef6112a1ac4fb7bf10272bf6cbe0f80ef44a6c489385::typus::TYPUS", Decimals: 9},
		{Symbol: "AUSD", Type: "0x2053d08c1e2bd02791056171aab0fd12bd7cd7efad2ab8f6b9c8902f14df2ff2::ausd::AUSD", Decimals: 6},
		{Symbol: "DRF", Type: "0x294de7579d55c110a00a7c4946e09a1b5cbeca2592fbb83fd7bfacba3cfeaf0e::drf::DRF", Decimals: 6},
	}

	m := make(map[string]domain.CoinMetadata, len(coins))
	for _, c := range coins {
		m[c.Symbol] = c
	}
	return m
}

func mainnetPools() map[string]domain.PoolMetadata {
	pools := []domain.PoolMetadata{
		{Pair: "DEEP_SUI", PoolID: "0xb663828d6217467c8a1838a03793da896cbe745b150ebd57d82f814ca579fc22",
			BaseCoin: "DEEP", QuoteCoin: "SUI", TickSize: 100_000_000, LotSize: 1_000_000, MinSize: 10_000_000},
		{Pair: "SUI_USDC", PoolID: "0xe05dafb5133bcffb8d59f4e12465dc0e9faeaa05e3e342a08fe135800e3e4407",
			BaseCoin: "SUI", QuoteCoin: "USDC", TickSize: 1_000, LotSize: 100_000_000, MinSize: 1_000_000_000},
		{Pair: "DEEP_USDC", PoolID: "0xf948981b806057580f91622417534f491da5f61aeaf33d0ed8e69fd5691c95ce",
			BaseCoin: "DEEP", QuoteCoin: "USDC", TickSize: 100_000, LotSize: 1_000_000, MinSize: 10_000_000},
		{Pair: "WUSDT_USDC", PoolID: "0x4e2ca3988246e1d50b9bf209abb9c1cbfec65bd95afdacc620a36c67bdb8452f",
			BaseCoin: "WUSDT", QuoteCoin: "USDC", TickSize: 100_000, LotSize: 1_000_000, MinSize: 10_000_000},
		{Pair: "WUSDC_USDC", PoolID: "0xa0b9ebefb38c963fd115f52d71fa64501b79d1adcb5270563f92ce0442376545",
			BaseCoin: "WUSDC", QuoteCoin: "USDC", TickSize: 100_000, LotSize: 1_000_000, MinSize: 10_000_000},
		{Pair: "BETH_USDC", PoolID: "0x1109352b9112717bd2a7c3eb9a416fff1ba6951760f5bdd5424cf5e4e5b3e65c",
			BaseCoin: "BETH", QuoteCoin: "USDC", TickSize: 100_000, LotSize: 100_000, MinSize: 1_000_000},
		{Pair: "NS_USDC", PoolID: "0x0c0fdd4008740d81a8a7d4281322aee71a1b62c449eb5b142656753d89ebc060",
			BaseCoin: "NS", QuoteCoin: "USDC", TickSize: 100_000, LotSize: 1_000_000, MinSize: 10_000_000},
		{Pair: "NS_SUI", PoolID: "0x27c4fdb3b846aa3ae4a65ef5127a309aa3c1f466671471a806d8912a18b253e8",
			BaseCoin: "NS", QuoteCoin: "SUI", TickSize: 100_000_000, LotSize: 1_000_000, MinSize: 10_000_000},
		{Pair: "TYPUS_SUI", PoolID: "0xe8e56f377ab5a261449b92ac42c8ddaacd5671e9fec2179d7933dd1a91200eec",
			BaseCoin: "TYPUS", QuoteCoin: "SUI", TickSize: 100_000, LotSize: 1_000_000_000, MinSize: 10_000_000_000},
		{Pair: "SUI_AUSD", PoolID: "0x183df694ebc852a5f90a959f0f563b82ac9691e42357e9a9fe961d71a1b809c8",
			BaseCoin: "SUI", QuoteCoin: "AUSD", TickSize: 1_000, LotSize: 100_000_000, MinSize: 1_000_000_000},
		{Pair: "AUSD_USDC", PoolID: "0x5661fc7f88fbeb8cb881150a810758cf13700bb4e1f31274a244581b37c303c3",
			BaseCoin: "AUSD", QuoteCoin: "USDC", TickSize: 100_000, LotSize: 1_000_000, MinSize: 10_000_000},
	}

	m := make(map[string]domain.PoolMetadata, len(pools))
	for _, p := range pools {
		m[p.Pair] = p
	}
	return m
}
