// Package sui is the chain boundary: a JSON-RPC gateway to a Sui fullnode
// plus the DeepBook indexer, with failures classified before they surface.
package sui

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"deepbook_go/internal/domain"
)

// Default public endpoints per environment.
const (
	MainnetRPCURL     = "https://fullnode.mainnet.sui.io:443"
	TestnetRPCURL     = "https://fullnode.testnet.sui.io:443"
	MainnetIndexerURL = "https://deepbook-indexer.mainnet.mystenlabs.com"
	TestnetIndexerURL = "https://deepbook-indexer.testnet.mystenlabs.com"
)

// Gateway implements domain.ChainGateway over HTTP.
type Gateway struct {
	rpcURL     string
	indexerURL string
	httpClient *http.Client
	signer     domain.Signer
	logger     *slog.Logger
	reqID      atomic.Int64
}

// NewGateway creates a gateway. The signer is only consulted on Submit.
func NewGateway(rpcURL, indexerURL string, signer domain.Signer) *Gateway {
	return &Gateway{
		rpcURL:     rpcURL,
		indexerURL: strings.TrimRight(indexerURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		signer: signer,
		logger: slog.Default().With("module", "sui_gateway"),
	}
}

// Submit encodes, signs and executes the plan, waiting for finality. The
// returned error is classified: version conflicts and transient network
// failures are retriable, timeouts are unknown-outcome, deterministic chain
// rejections are fatal.
func (g *Gateway) Submit(ctx context.Context, plan *domain.TransactionPlan) (*domain.TransactionOutcome, error) {
	txBytes, err := json.Marshal(plan)
	if err != nil {
		return nil, domain.NewFatalNetworkError("encode_plan", err)
	}

	signature, err := g.signer.Sign(txBytes)
	if err != nil {
		return nil, domain.NewFatalNetworkError("sign", err)
	}

	params := []interface{}{
		base64.StdEncoding.EncodeToString(txBytes),
		[]string{base64.StdEncoding.EncodeToString(signature)},
		map[string]bool{"showEffects": true},
		"WaitForLocalExecution",
	}

	raw, err := g.doRPC(ctx, "sui_executeTransactionBlock", params)
	if err != nil {
		return nil, g.classifySubmitError(plan, err)
	}

	var res executeResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, domain.NewFatalNetworkError("decode_execute_result", err)
	}
	if res.Effects == nil {
		return nil, domain.NewFatalNetworkError("decode_execute_result",
			errors.New("missing effects in response"))
	}

	if res.Effects.Status.Status != "success" {
		return nil, classifyExecutionFailure(plan, res.Effects.Status.Error)
	}

	outcome := &domain.TransactionOutcome{
		Success:  true,
		Digest:   res.Digest,
		Versions: make(map[string]uint64),
	}
	for _, ch := range res.Effects.Mutated {
		outcome.Versions[ch.Reference.ObjectID] = ch.Reference.Version
	}
	for _, ch := range res.Effects.Created {
		outcome.Versions[ch.Reference.ObjectID] = ch.Reference.Version
		outcome.Created = append(outcome.Created, ch.Reference.ObjectID)
	}

	g.logger.Info("plan executed",
		slog.String("digest", res.Digest),
		slog.Int("steps", len(plan.Steps)))
	return outcome, nil
}

// QueryObject fetches an object's authoritative version and decoded state.
func (g *Gateway) QueryObject(ctx context.Context, objectID string) (*domain.ObjectState, error) {
	params := []interface{}{
		objectID,
		map[string]bool{"showContent": true, "showOwner": true},
	}

	raw, err := g.doRPC(ctx, "sui_getObject", params)
	if err != nil {
		return nil, err
	}

	var res getObjectResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, domain.NewFatalNetworkError("decode_object", err)
	}
	if res.Data == nil {
		return nil, &domain.ExecutionError{Code: "ObjectNotFound", Msg: objectID}
	}

	version, err := strconv.ParseUint(res.Data.Version, 10, 64)
	if err != nil {
		return nil, domain.NewFatalNetworkError("decode_object_version", err)
	}

	state := &domain.ObjectState{
		ID:       res.Data.ObjectID,
		Version:  version,
		Balances: make(map[string]uint64),
	}
	if res.Data.Owner != nil {
		state.Owner = res.Data.Owner.AddressOwner
	}

	if res.Data.Content != nil && len(res.Data.Content.Fields) > 0 {
		var fields managerFields
		if err := json.Unmarshal(res.Data.Content.Fields, &fields); err == nil {
			if fields.Owner != "" {
				state.Owner = fields.Owner
			}
			for coinType, amount := range fields.Balances {
				if v, perr := strconv.ParseUint(amount, 10, 64); perr == nil {
					state.Balances[coinType] = v
				}
			}
		}

		var generic map[string]any
		if err := json.Unmarshal(res.Data.Content.Fields, &generic); err == nil {
			state.Fields = generic
		}
	}

	return state, nil
}

// QueryOpenOrders pages through the manager's open orders in the pool via the
// DeepBook indexer.
func (g *Gateway) QueryOpenOrders(ctx context.Context, poolID, managerID, cursor string, limit int) (*domain.OrderPage, error) {
	if limit <= 0 {
		limit = 50
	}

	q := url.Values{}
	q.Set("pool_id", poolID)
	q.Set("balance_manager_id", managerID)
	q.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	reqURL := g.indexerURL + "/open_orders?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.NewFatalNetworkError("query_open_orders", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError("query_open_orders", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewNetworkError("query_open_orders", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPStatus("query_open_orders", resp.StatusCode, body)
	}

	var page indexerOrdersPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, domain.NewFatalNetworkError("decode_open_orders", err)
	}

	out := &domain.OrderPage{
		NextCursor: page.NextCursor,
		HasNext:    page.HasNext,
	}
	for _, row := range page.Orders {
		side := domain.SideSell
		if row.IsBid {
			side = domain.SideBuy
		}
		out.Orders = append(out.Orders, domain.Order{
			OrderID:   row.OrderID,
			Pool:      row.PoolID,
			Side:      side,
			PriceRaw:  row.Price,
			QtyRaw:    row.Quantity,
			FilledRaw: row.FilledQuantity,
			Status:    normalizeOrderStatus(row.Status, row.FilledQuantity),
			ExpireTs:  row.ExpireTimestamp,
		})
	}
	return out, nil
}

// ---- transport ----

func (g *Gateway) doRPC(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      g.reqID.Add(1),
		Method:  method,
		Params:  params,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, domain.NewFatalNetworkError(method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.rpcURL, bytes.NewReader(b))
	if err != nil {
		return nil, domain.NewFatalNetworkError(method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewNetworkError(method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPStatus(method, resp.StatusCode, body)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, domain.NewFatalNetworkError(method, err)
	}
	if rpcResp.Error != nil {
		return nil, &rpcCallError{method: method, code: rpcResp.Error.Code, message: rpcResp.Error.Message}
	}
	return rpcResp.Result, nil
}

// rpcCallError is an unclassified JSON-RPC error; Submit and the query paths
// map it onto the domain taxonomy.
type rpcCallError struct {
	method  string
	code    int
	message string
}

func (e *rpcCallError) Error() string {
	return fmt.Sprintf("%s: rpc error %d: %s", e.method, e.code, e.message)
}

// ---- classification ----

func (g *Gateway) classifySubmitError(plan *domain.TransactionPlan, err error) error {
	var rpcErr *rpcCallError
	if errors.As(err, &rpcErr) {
		msg := rpcErr.message
		if strings.Contains(msg, "not available for consumption") ||
			strings.Contains(msg, "ObjectVersionUnavailable") ||
			strings.Contains(msg, "is locked") {
			// Version fencing rejected the plan before execution.
			for _, ref := range plan.Refs {
				if ref.Mutable {
					return &domain.VersionConflictError{ObjectID: ref.ID, Expected: ref.Version}
				}
			}
			return &domain.VersionConflictError{}
		}
		return &domain.ExecutionError{Code: strconv.Itoa(rpcErr.code), Msg: msg}
	}
	return err
}

func classifyExecutionFailure(plan *domain.TransactionPlan, detail string) error {
	if strings.Contains(detail, "ObjectVersionUnavailable") {
		for _, ref := range plan.Refs {
			if ref.Mutable {
				return &domain.VersionConflictError{ObjectID: ref.ID, Expected: ref.Version}
			}
		}
	}

	code := "ExecutionFailure"
	if i := strings.Index(detail, "MoveAbort"); i >= 0 {
		code = "MoveAbort"
	}
	return &domain.ExecutionError{Code: code, Msg: detail}
}

func classifyTransportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.TimeoutError{Op: op, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.TimeoutError{Op: op, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return domain.NewNetworkError(op, err)
}

func classifyHTTPStatus(op string, status int, body []byte) error {
	err := fmt.Errorf("status=%d body=%s", status, truncate(body, 256))
	if status >= 500 || status == http.StatusTooManyRequests {
		return domain.NewNetworkError(op, err)
	}
	return domain.NewFatalNetworkError(op, err)
}

func normalizeOrderStatus(status string, filled uint64) string {
	switch strings.ToLower(status) {
	case "open", "placed", "live":
		if filled > 0 {
			return domain.OrderStatusPartiallyFilled
		}
		return domain.OrderStatusOpen
	case "partially_filled":
		return domain.OrderStatusPartiallyFilled
	case "filled":
		return domain.OrderStatusFilled
	case "canceled", "cancelled":
		return domain.OrderStatusCancelled
	case "expired":
		return domain.OrderStatusExpired
	default:
		return strings.ToUpper(status)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
