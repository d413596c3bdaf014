package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vestire/db"
	"vestire/models"
	"vestire/rdx"
	"vestire/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// loadOrCreateCart fetches the user's cart, creating the empty one lazily on
// first access.
func loadOrCreateCart(ctx context.Context, userID string) (models.Cart, error) {
	var c models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c)
	if err == nil {
		return c, nil
	}
	if err != mongo.ErrNoDocuments {
		return c, err
	}

	now := time.Now()
	c = models.Cart{
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.CartCollection.InsertOne(ctx, c); err != nil {
		return c, err
	}
	return c, nil
}

func saveItems(ctx context.Context, userID string, items []models.CartItem) error {
	_, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": items, "updated_at": time.Now()}},
	)
	return err
}

// GetCart returns the caller's cart, creating it on first access.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	c, err := loadOrCreateCart(r.Context(), userID)
	if err != nil {
		log.Printf("GetCart error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// AddToCart adds a line, merging into an existing (product, size) line.
// Products that declare sizes require one.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		ProductID string `json:"productId"`
		Size      string `json:"size"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": input.ProductID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if product.HasSize && input.Size == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "This product requires a size")
		return
	}
	size := ""
	if product.HasSize {
		size = input.Size
	}

	err := rdx.WithUserLock(ctx, userID, func() error {
		c, err := loadOrCreateCart(ctx, userID)
		if err != nil {
			return err
		}
		items := mergeItem(c.Items, models.CartItem{
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			Size:      size,
		})
		return saveItems(ctx, userID, items)
	})
	if err != nil {
		log.Printf("AddToCart error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	respondWithCart(ctx, w, userID)
}

// UpdateCartItem sets a line's quantity; zero or below removes the line.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		ProductID string `json:"productId"`
		Size      string `json:"size"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	found := false
	err := rdx.WithUserLock(ctx, userID, func() error {
		var c models.Cart
		if err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c); err != nil {
			return err
		}
		var items []models.CartItem
		items, found = setQuantity(c.Items, input.ProductID, input.Size, input.Quantity)
		if !found {
			return nil
		}
		return saveItems(ctx, userID, items)
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return
	}
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Item not found in cart")
		return
	}

	respondWithCart(ctx, w, userID)
}

// RemoveFromCart drops a line by (product, size).
func RemoveFromCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		ProductID string `json:"productId"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	err := rdx.WithUserLock(ctx, userID, func() error {
		var c models.Cart
		if err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c); err != nil {
			return err
		}
		return saveItems(ctx, userID, removeItem(c.Items, input.ProductID, input.Size))
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return
	}

	respondWithCart(ctx, w, userID)
}

// IncreaseQuantity bumps a line by one. The line must exist.
func IncreaseQuantity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		ProductID string `json:"productId"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	found := false
	err := rdx.WithUserLock(ctx, userID, func() error {
		var c models.Cart
		if err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c); err != nil {
			return err
		}
		idx := findItem(c.Items, input.ProductID, input.Size)
		if idx < 0 {
			return nil
		}
		found = true
		c.Items[idx].Quantity++
		return saveItems(ctx, userID, c.Items)
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return
	}
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Item not found in cart")
		return
	}

	respondWithCart(ctx, w, userID)
}

// DecreaseQuantity lowers a line by one, removing it at quantity 1. A line
// that is already gone is a no-op.
func DecreaseQuantity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		ProductID string `json:"productId"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	err := rdx.WithUserLock(ctx, userID, func() error {
		var c models.Cart
		if err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c); err != nil {
			return err
		}
		return saveItems(ctx, userID, decreaseItem(c.Items, input.ProductID, input.Size))
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Cart not found")
		return
	}

	respondWithCart(ctx, w, userID)
}

// ClearCart empties the cart entirely.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)

	err := rdx.WithUserLock(ctx, userID, func() error {
		_, err := db.CartCollection.UpdateOne(ctx,
			bson.M{"userId": userID},
			bson.M{"$set": bson.M{"items": []models.CartItem{}, "paid": false, "updated_at": time.Now()}},
		)
		return err
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Cart cleared"})
}

func respondWithCart(ctx context.Context, w http.ResponseWriter, userID string) {
	var c models.Cart
	if err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}
