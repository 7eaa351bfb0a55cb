package sui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"deepbook_go/internal/infra"

	"github.com/gorilla/websocket"
)

const (
	wsHandshakeTimeout = 10 * time.Second
	wsReadTimeout      = 90 * time.Second
	wsPingInterval     = 30 * time.Second
	wsMaxRetries       = 10
)

// EventHandler is invoked for every DeepBook event that touches a balance
// manager. The worker only reports; cache invalidation lives with the caller.
type EventHandler func(managerObjectID, poolID string)

// EventsWorker subscribes to DeepBook package events over the fullnode
// websocket. Fills and balance mutations observed here mark cached balances
// stale so the next read refreshes from the chain.
type EventsWorker struct {
	wsURL     string
	packageID string
	onEvent   EventHandler

	conn      *websocket.Conn
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// NewEventsWorker creates a worker watching events of the given package.
func NewEventsWorker(wsURL, packageID string, onEvent EventHandler) *EventsWorker {
	return &EventsWorker{
		wsURL:     wsURL,
		packageID: packageID,
		onEvent:   onEvent,
		logger:    slog.Default().With("module", "sui_events"),
	}
}

// Connect starts the connection loop in the background.
func (w *EventsWorker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

func (w *EventsWorker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			w.logger.Warn("event stream connection failed",
				slog.Any("error", err), slog.Int("retry", retryCount))
			retryCount++
			if retryCount > wsMaxRetries {
				retryCount = 0
			}
			delay := infra.CalculateBackoff(retryCount)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
		}
	}
}

func (w *EventsWorker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, w.wsURL, nil)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()
	infra.GlobalMetrics.SetWSConnected(true)

	if err := w.subscribe(); err != nil {
		w.closeConnection()
		return err
	}

	go w.pingLoop(ctx)
	w.logger.Info("event stream connected", slog.String("package", w.packageID))
	return nil
}

func (w *EventsWorker) subscribe() error {
	req := wsSubscribeRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "suix_subscribeEvent",
		Params: []interface{}{
			map[string]interface{}{"Package": w.packageID},
		},
	}
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return w.threadSafeWrite(websocket.TextMessage, b)
}

func (w *EventsWorker) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.threadSafeWrite(websocket.PingMessage, nil)
		}
	}
}

func (w *EventsWorker) threadSafeWrite(msgType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.conn == nil {
		return fmt.Errorf("no conn")
	}
	return w.conn.WriteMessage(msgType, data)
}

func (w *EventsWorker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Capture under the lock; a concurrent Disconnect can nil w.conn.
		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()
		if conn == nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		_, msg, err := conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

func (w *EventsWorker) handleMessage(msg []byte) {
	var frame wsEventFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		return
	}
	if frame.Method != "suix_subscribeEvent" || len(frame.Params.Result.ParsedJSON) == 0 {
		return
	}

	var ev bookEvent
	if err := json.Unmarshal(frame.Params.Result.ParsedJSON, &ev); err != nil {
		return
	}
	if ev.BalanceManagerID == "" || w.onEvent == nil {
		return
	}

	w.onEvent(ev.BalanceManagerID, ev.PoolID)
}

// IsConnected reports the current stream state.
func (w *EventsWorker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

func (w *EventsWorker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
	infra.GlobalMetrics.SetWSConnected(false)
}

// Disconnect stops the loop and closes the connection.
func (w *EventsWorker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}
