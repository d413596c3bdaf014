package orders

import (
	"testing"
	"time"

	"vestire/models"
)

func TestNotifyStatusDropsSlowConsumer(t *testing.T) {
	client := &wsClient{send: make(chan statusUpdate, 1)}
	registerWatcher("o1", client)
	defer unregisterWatcher("o1", client)

	NotifyStatus("o1", models.StatusPaid)
	NotifyStatus("o1", models.StatusShipped)

	if _, open := <-client.send; !open {
		t.Fatal("expected the first update to be buffered")
	}
	if _, open := <-client.send; open {
		t.Fatal("expected the channel closed after the client fell behind")
	}
}

func TestSendCurrentAfterDropDoesNotPanic(t *testing.T) {
	client := &wsClient{send: make(chan statusUpdate, 1)}
	registerWatcher("o2", client)

	NotifyStatus("o2", models.StatusPaid)
	NotifyStatus("o2", models.StatusShipped)

	// The client is gone and its channel closed. The connect-time push must
	// notice instead of sending on the closed channel.
	sendCurrent("o2", client, statusUpdate{OrderID: "o2", Status: models.StatusPending, Timestamp: time.Now().Unix()})
	unregisterWatcher("o2", client)
}

func TestUnregisterTwiceIsSafe(t *testing.T) {
	client := &wsClient{send: make(chan statusUpdate, 1)}
	registerWatcher("o3", client)

	unregisterWatcher("o3", client)
	unregisterWatcher("o3", client)
}
