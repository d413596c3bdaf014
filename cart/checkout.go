package cart

import (
	"errors"
	"log"
	"net/http"
	"time"

	"vestire/db"
	"vestire/models"
	"vestire/mq"
	"vestire/rdx"
	"vestire/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// errHandled marks callback failures that already wrote a response.
var errHandled = errors.New("response already written")

// Checkout is the legacy cart checkout: it turns the cart's lines into a
// pending order priced from the live catalog and clears the cart. The
// explicit order endpoint supersedes it but storefront clients still call it.
func Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	var order models.Order
	err := rdx.WithUserLock(ctx, userID, func() error {
		var c models.Cart
		if err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
			return errHandled
		}
		if len(c.Items) == 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "The cart is empty")
			return errHandled
		}
		if c.Paid {
			utils.RespondWithError(w, http.StatusBadRequest, "This cart was already paid")
			return errHandled
		}

		var total float64
		items := make([]models.OrderItem, 0, len(c.Items))
		for _, line := range c.Items {
			var product models.Product
			if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": line.ProductID}).Decode(&product); err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Product "+line.ProductID+" not found")
				return errHandled
			}
			total += product.Price * float64(line.Quantity)
			items = append(items, models.OrderItem{
				ProductID:   line.ProductID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    line.Quantity,
				Size:        line.Size,
			})
		}

		now := time.Now()
		order = models.Order{
			OrderID:        "o" + utils.GenerateRandomString(10),
			UserID:         userID,
			Items:          items,
			TotalAmount:    total,
			ShippingMethod: models.ShippingPickupInStore,
			Status:         models.StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
			log.Printf("Checkout order insert error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
			return errHandled
		}

		_, err := db.CartCollection.UpdateOne(ctx,
			bson.M{"userId": userID},
			bson.M{"$set": bson.M{"items": []models.CartItem{}, "paid": false, "updated_at": now}},
		)
		if err != nil {
			log.Printf("Checkout cart clear error: %v", err)
		}
		return nil
	})
	if err != nil {
		return
	}

	mq.Emit(ctx, mq.Event{Name: "order-created", OrderID: order.OrderID, UserID: userID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Order created", "order": order})
}
