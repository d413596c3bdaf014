package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vestire/db"
	"vestire/models"
	"vestire/mq"
	"vestire/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderItemInput struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

type createOrderInput struct {
	Items           []orderItemInput    `json:"items"`
	TotalAmount     float64             `json:"totalAmount"`
	ShippingMethod  string              `json:"shippingMethod"`
	ShippingAddress string              `json:"shippingAddress"`
	PickupPoint     *models.PickupPoint `json:"pickupPoint"`
}

// shippingDetails folds the flat wire fields into the stored payload. The
// address only lands on home deliveries and the point only on pickups.
func (in createOrderInput) shippingDetails() models.ShippingDetails {
	details := models.ShippingDetails{UserInfo: in.ShippingAddress}
	if in.ShippingMethod == models.ShippingHomeDelivery {
		details.Address = in.ShippingAddress
	}
	if in.ShippingMethod == models.ShippingPickupPoint {
		details.PickupPoint = in.PickupPoint
	}
	return details
}

// CreateOrder creates a pending order from an explicit item list. Quantities,
// sizes and the total come from the client; names and unit prices are
// snapshotted from the catalog. The total is stored as submitted and never
// recomputed afterwards.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	var input createOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if len(input.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}
	if !models.ValidShippingMethod(input.ShippingMethod) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid shipping method")
		return
	}
	if input.ShippingMethod == models.ShippingHomeDelivery && input.ShippingAddress == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Home delivery requires an address")
		return
	}
	if input.ShippingMethod == models.ShippingPickupPoint && input.PickupPoint == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Pickup requires a pickup point")
		return
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Item quantity must be positive")
			return
		}
		var product models.Product
		if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": line.ProductID}).Decode(&product); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Product "+line.ProductID+" not found")
			return
		}
		if product.HasSize && line.Size == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Product "+product.Name+" requires a size")
			return
		}
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			Size:        line.Size,
		})
	}

	now := time.Now()
	order := models.Order{
		OrderID:         "o" + utils.GenerateRandomString(10),
		UserID:          userID,
		Items:           items,
		TotalAmount:     input.TotalAmount,
		ShippingMethod:  input.ShippingMethod,
		ShippingDetails: input.shippingDetails(),
		Status:          models.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		log.Printf("CreateOrder insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	mq.Emit(ctx, mq.Event{Name: "order-created", OrderID: order.OrderID, UserID: userID, Status: order.Status})
	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// enrichedItem augments an order line with whatever the catalog currently
// knows about the product. Deleted products keep their snapshot name.
type enrichedItem struct {
	models.OrderItem
	Price float64 `json:"price,omitempty"`
	Image string  `json:"image,omitempty"`
}

type enrichedOrder struct {
	models.Order
	Items []enrichedItem `json:"items"`
}

func enrich(ctx context.Context, order models.Order) enrichedOrder {
	out := enrichedOrder{Order: order, Items: make([]enrichedItem, 0, len(order.Items))}
	for _, it := range order.Items {
		e := enrichedItem{OrderItem: it}
		var product models.Product
		if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": it.ProductID}).Decode(&product); err == nil {
			e.ProductName = product.Name
			e.Price = product.Price
			e.Image = product.Image
		}
		out.Items = append(out.Items, e)
	}
	return out
}

// ListOrders returns the caller's orders, newest first.
func ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	findOptions := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userid": userID}, findOptions)
	if err != nil {
		log.Printf("ListOrders find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	var raw []models.Order
	if err := cursor.All(ctx, &raw); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read orders")
		return
	}

	out := make([]enrichedOrder, 0, len(raw))
	for _, o := range raw {
		out = append(out, enrich(r.Context(), o))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GetOrder fetches one of the caller's orders. Another user's order looks
// like a missing one.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var order models.Order
	err := db.OrderCollection.FindOne(r.Context(),
		bson.M{"orderid": ps.ByName("id"), "userid": userID},
	).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, enrich(r.Context(), order))
}

// UpdateOrderStatus advances an order one step along
// pending -> paid -> shipped -> delivered. "paid" is owned by the payment
// flow and cannot be set here.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("id")

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if !models.ValidStatus(input.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown status")
		return
	}
	if input.Status == models.StatusPaid {
		utils.RespondWithError(w, http.StatusBadRequest, "Orders are marked paid by the payment flow")
		return
	}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID, "userid": userID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if !models.CanTransition(order.Status, input.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Cannot change status from "+order.Status+" to "+input.Status)
		return
	}

	_, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": orderID},
		bson.M{"$set": bson.M{"status": input.Status, "updated_at": time.Now()}},
	)
	if err != nil {
		log.Printf("UpdateOrderStatus error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	NotifyStatus(orderID, input.Status)
	mq.Emit(ctx, mq.Event{Name: "order-status-changed", OrderID: orderID, UserID: userID, Status: input.Status})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"orderid": orderID, "status": input.Status})
}

// DeleteOrder removes one of the caller's orders.
func DeleteOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("id")

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "This order belongs to another user")
		return
	}

	if _, err := db.OrderCollection.DeleteOne(ctx, bson.M{"orderid": orderID}); err != nil {
		log.Printf("DeleteOrder error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	mq.Emit(ctx, mq.Event{Name: "order-deleted", OrderID: orderID, UserID: userID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Order deleted"})
}
