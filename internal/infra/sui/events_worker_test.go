package sui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestEventsWorker_DeliversEventsAndDisconnects(t *testing.T) {
	upgrader := websocket.Upgrader{}
	serverDone := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// Subscription request arrives first.
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("read subscribe: %v", err)
			return
		}
		if !strings.Contains(string(msg), "suix_subscribeEvent") {
			t.Errorf("unexpected subscribe payload: %s", msg)
		}

		frame := `{"method":"suix_subscribeEvent","params":{"result":{` +
			`"type":"0xdeepbook::order_info::OrderFilled",` +
			`"parsedJson":{"balance_manager_id":"0xmanager","pool_id":"0xpool"}}}}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Errorf("write event: %v", err)
		}

		// Hold the connection open so the worker does not churn reconnects.
		<-serverDone
	}))
	defer srv.Close()
	defer close(serverDone)

	events := make(chan [2]string, 1)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	worker := NewEventsWorker(wsURL, "0xdeepbook", func(managerObjectID, poolID string) {
		events <- [2]string{managerObjectID, poolID}
	})

	if err := worker.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	select {
	case ev := <-events:
		if ev[0] != "0xmanager" || ev[1] != "0xpool" {
			t.Errorf("Unexpected event %v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	if !worker.IsConnected() {
		t.Error("worker should report connected")
	}

	// Disconnect can race the blocked read; both must settle cleanly.
	worker.Disconnect()
	if worker.IsConnected() {
		t.Error("worker should report disconnected")
	}
}
