package sui

import "encoding/json"

// JSON-RPC 2.0 wire types for the Sui fullnode API.

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// sui_executeTransactionBlock result subset.

type executeResult struct {
	Digest  string     `json:"digest"`
	Effects *txEffects `json:"effects"`
}

type txEffects struct {
	Status  txStatus    `json:"status"`
	Mutated []objChange `json:"mutated"`
	Created []objChange `json:"created"`
}

type txStatus struct {
	Status string `json:"status"` // "success" | "failure"
	Error  string `json:"error,omitempty"`
}

type objChange struct {
	Reference objReference `json:"reference"`
}

type objReference struct {
	ObjectID string `json:"objectId"`
	Version  uint64 `json:"version"`
}

// sui_getObject result subset.

type getObjectResult struct {
	Data *objectData `json:"data"`
}

type objectData struct {
	ObjectID string         `json:"objectId"`
	Version  string         `json:"version"` // Decimal string on the wire
	Owner    *objectOwner   `json:"owner"`
	Content  *objectContent `json:"content"`
}

type objectOwner struct {
	AddressOwner string `json:"AddressOwner,omitempty"`
	Shared       *struct {
		InitialSharedVersion uint64 `json:"initial_shared_version"`
	} `json:"Shared,omitempty"`
}

type objectContent struct {
	Type   string          `json:"type"`
	Fields json.RawMessage `json:"fields"`
}

// Balance manager object fields: coin type tag -> raw amount string.

type managerFields struct {
	Owner    string            `json:"owner"`
	Balances map[string]string `json:"balances"`
}

// Indexer open-orders rows.

type indexerOrdersPage struct {
	Orders     []indexerOrder `json:"orders"`
	NextCursor string         `json:"next_cursor"`
	HasNext    bool           `json:"has_next_page"`
}

type indexerOrder struct {
	OrderID         string `json:"order_id"`
	BalanceManager  string `json:"balance_manager_id"`
	PoolID          string `json:"pool_id"`
	IsBid           bool   `json:"is_bid"`
	Price           uint64 `json:"price"`
	Quantity        uint64 `json:"original_quantity"`
	FilledQuantity  uint64 `json:"filled_quantity"`
	Status          string `json:"status"`
	ExpireTimestamp uint64 `json:"expire_timestamp"`
}

// Websocket event stream frames (suix_subscribeEvent).

type wsSubscribeRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type wsEventFrame struct {
	Method string `json:"method"`
	Params struct {
		Result struct {
			Type       string          `json:"type"`
			ParsedJSON json.RawMessage `json:"parsedJson"`
		} `json:"result"`
	} `json:"params"`
}

// Order fill / balance event payload emitted by the DeepBook package.

type bookEvent struct {
	BalanceManagerID string `json:"balance_manager_id"`
	PoolID           string `json:"pool_id"`
	OrderID          string `json:"order_id"`
}
