package domain

import "context"

// ObjectState is the decoded chain view of an owned or shared object.
type ObjectState struct {
	ID       string
	Version  uint64
	Owner    string
	Balances map[string]uint64 // coin type tag -> raw amount, for balance managers
	Fields   map[string]any    // Remaining decoded content fields
}

// OrderPage is one page of an open-orders query.
type OrderPage struct {
	Orders     []Order
	NextCursor string
	HasNext    bool
}

// ChainGateway submits transaction plans and answers read queries against the
// chain. Failures are classified (NetworkError, VersionConflictError,
// ExecutionError, TimeoutError) before being surfaced.
type ChainGateway interface {
	Submit(ctx context.Context, plan *TransactionPlan) (*TransactionOutcome, error)
	QueryObject(ctx context.Context, objectID string) (*ObjectState, error)
	QueryOpenOrders(ctx context.Context, poolID, managerID, cursor string, limit int) (*OrderPage, error)
}

// Signer turns a plan's encoded form into a signed submittable payload.
// Implementations hold key material; this client never inspects it.
type Signer interface {
	Sign(txBytes []byte) ([]byte, error)
	Address() string
}
