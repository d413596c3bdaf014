package products

import (
	"encoding/json"
	"log"
	"net/http"

	"vestire/db"
	"vestire/models"
	"vestire/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// CreateProduct inserts a catalog record.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product payload")
		return
	}
	if product.Name == "" || product.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and a positive price are required")
		return
	}

	if product.ProductID == "" {
		product.ProductID = "p" + utils.GenerateRandomString(10)
	}
	if product.AvailableSizes == nil {
		product.AvailableSizes = []string{}
	}
	if product.AdditionalImages == nil {
		product.AdditionalImages = []string{}
	}

	if _, err := db.ProductCollection.InsertOne(r.Context(), product); err != nil {
		log.Printf("CreateProduct insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateAllPrices overwrites every product's price with the supplied value.
// Administrative bulk tool.
func UpdateAllPrices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "A positive price is required")
		return
	}

	res, err := db.ProductCollection.UpdateMany(r.Context(), bson.M{}, bson.M{"$set": bson.M{"price": input.Price}})
	if err != nil {
		log.Printf("UpdateAllPrices error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update prices")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message":      "Prices updated",
		"updatedCount": res.ModifiedCount,
	})
}
