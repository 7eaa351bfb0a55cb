package domain

// Order represents an order as reported by the chain.
// Price and quantity are in chain base units; this client never mutates an
// order locally beyond status transitions learned from later queries.
type Order struct {
	OrderID   string
	Manager   string // Logical balance manager name
	Pool      string // Pool pair key, e.g. "SUI_USDC"
	Side      string // "BUY", "SELL"
	PriceRaw  uint64
	QtyRaw    uint64
	FilledRaw uint64
	Status    string
	ExpireTs  uint64 // Unix millis; MaxTimestamp for GTC
}

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	OrderStatusOpen            = "OPEN"
	OrderStatusPartiallyFilled = "PARTIALLY_FILLED"
	OrderStatusFilled          = "FILLED"
	OrderStatusCancelled       = "CANCELLED"
	OrderStatusExpired         = "EXPIRED"
)

// TimeInForce is the restriction byte understood by pool::place_limit_order.
type TimeInForce uint8

const (
	TIFGoodTilCancelled  TimeInForce = 0 // No restriction
	TIFImmediateOrCancel TimeInForce = 1
	TIFFillOrKill        TimeInForce = 2
	TIFPostOnly          TimeInForce = 3
)

// MaxTimestamp is the expiry sentinel for orders that never expire.
const MaxTimestamp = ^uint64(0)

// IsOpen checks if the order is still resting on the book.
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusOpen || o.Status == OrderStatusPartiallyFilled
}

// RemainingRaw returns the unfilled quantity in chain base units.
func (o *Order) RemainingRaw() uint64 {
	if o.FilledRaw >= o.QtyRaw {
		return 0
	}
	return o.QtyRaw - o.FilledRaw
}
