package orders

import (
	"log"
	"net/http"
	"sync"
	"time"

	"vestire/db"
	"vestire/middleware"
	"vestire/models"
	"vestire/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// statusUpdate is what we push to every watcher of an order.
type statusUpdate struct {
	OrderID   string `json:"orderid"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan statusUpdate
}

// watchers maps order id -> connected clients.
var (
	watchersMu sync.Mutex
	watchers   = make(map[string]map[*wsClient]bool)
)

func registerWatcher(orderID string, c *wsClient) {
	watchersMu.Lock()
	defer watchersMu.Unlock()
	if watchers[orderID] == nil {
		watchers[orderID] = make(map[*wsClient]bool)
	}
	watchers[orderID][c] = true
}

func unregisterWatcher(orderID string, c *wsClient) {
	watchersMu.Lock()
	defer watchersMu.Unlock()
	if conns := watchers[orderID]; conns != nil {
		if conns[c] {
			delete(conns, c)
			close(c.send)
		}
		if len(conns) == 0 {
			delete(watchers, orderID)
		}
	}
}

// sendCurrent delivers the first status to a freshly registered client. It
// runs under the lock because NotifyStatus may already have dropped the
// client and closed its channel.
func sendCurrent(orderID string, c *wsClient, update statusUpdate) {
	watchersMu.Lock()
	defer watchersMu.Unlock()
	if conns := watchers[orderID]; conns != nil && conns[c] {
		select {
		case c.send <- update:
		default:
		}
	}
}

// NotifyStatus pushes a status change to every open socket watching the
// order. Slow consumers are dropped rather than blocked on.
func NotifyStatus(orderID, status string) {
	update := statusUpdate{OrderID: orderID, Status: status, Timestamp: time.Now().Unix()}

	watchersMu.Lock()
	defer watchersMu.Unlock()
	for c := range watchers[orderID] {
		select {
		case c.send <- update:
		default:
			delete(watchers[orderID], c)
			close(c.send)
		}
	}
}

// OrderUpdates upgrades to a websocket that streams status changes for one
// of the caller's orders. The current status is sent immediately on connect.
// The route is registered without the auth middleware, so the token is
// validated here before the upgrade.
func OrderUpdates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	orderID := ps.ByName("id")

	claims, err := middleware.ValidateJWT(middleware.TokenFromRequest(r))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}
	userID := claims.UserID

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID, "userid": userID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("order ws upgrade:", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan statusUpdate, 8)}
	registerWatcher(orderID, client)

	go func() {
		defer conn.Close()
		for update := range client.send {
			if err := conn.WriteJSON(update); err != nil {
				return
			}
		}
	}()

	sendCurrent(orderID, client, statusUpdate{OrderID: orderID, Status: order.Status, Timestamp: time.Now().Unix()})

	// Reader loop exists only to detect the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	unregisterWatcher(orderID, client)
}
