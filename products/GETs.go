package products

import (
	"context"
	"log"
	"net/http"

	"vestire/db"
	"vestire/models"
	"vestire/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultPageSize = 20

// GetProducts lists the full catalog.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	cursor, err := db.ProductCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("GetProducts find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// SearchProducts does a case-insensitive substring match over names, capped
// to 6 results for the search box dropdown.
func SearchProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	query := r.URL.Query().Get("query")

	filter := bson.M{"name": bson.M{"$regex": query, "$options": "i"}}
	cursor, err := db.ProductCollection.Find(ctx, filter, options.Find().SetLimit(6))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to search products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GetPaginatedProducts lists the catalog page by page, 20 per page, sorted by
// productid for a stable order.
func GetPaginatedProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, _ := utils.ParsePagination(r, defaultPageSize)
	listPaginated(r.Context(), w, bson.M{}, page, defaultPageSize)
}

// GetProductsByCategory lists one category page by page.
func GetProductsByCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, limit := utils.ParsePagination(r, defaultPageSize)
	filter := bson.M{"category": ps.ByName("category")}
	listPaginated(r.Context(), w, filter, page, limit)
}

// GetProductsBySubCategory narrows a category listing to one subcategory.
func GetProductsBySubCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, limit := utils.ParsePagination(r, defaultPageSize)
	filter := bson.M{
		"category":    ps.ByName("category"),
		"subCategory": ps.ByName("subCategory"),
	}
	listPaginated(r.Context(), w, filter, page, limit)
}

// SearchAllProducts is the paginated variant of name search.
func SearchAllProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit := utils.ParsePagination(r, defaultPageSize)
	query := r.URL.Query().Get("query")
	filter := bson.M{"name": bson.M{"$regex": query, "$options": "i"}}
	listPaginated(r.Context(), w, filter, page, limit)
}

func listPaginated(ctx context.Context, w http.ResponseWriter, filter bson.M, page, limit int) {
	total, err := db.ProductCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("listPaginated count error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	skip := int64((page - 1) * limit)
	findOptions := options.Find().
		SetSort(bson.M{"productid": 1}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cursor, err := db.ProductCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("listPaginated find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read products")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.PaginatedProducts{
		CurrentPage:     page,
		TotalPages:      utils.TotalPages(total, limit),
		ProductsPerPage: limit,
		TotalProducts:   total,
		Products:        products,
	})
}

// GetRandomProducts samples 20 products for the home page.
func GetRandomProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: 20}}}},
	}
	cursor, err := db.ProductCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("GetRandomProducts aggregate error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch random products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct fetches one product by id.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var product models.Product
	err := db.ProductCollection.FindOne(r.Context(), bson.M{"productid": ps.ByName("id")}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// GetRelatedProducts samples up to 4 products from the same category,
// excluding the subject product.
func GetRelatedProducts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	id := ps.ByName("id")

	var current models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": id}).Decode(&current); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "category", Value: current.Category},
			{Key: "productid", Value: bson.D{{Key: "$ne", Value: id}}},
		}}},
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: 4}}}},
	}
	cursor, err := db.ProductCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("GetRelatedProducts aggregate error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch related products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}
