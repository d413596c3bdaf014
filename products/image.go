package products

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"vestire/db"
	"vestire/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	productPicDir = "static/productpic"
	thumbWidth    = 300
)

// UploadProductImage saves a product photo plus a thumbnail and records the
// filename on the product. Form field: "image".
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	id := ps.ByName("id")

	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": id}).Err()
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	if err := utils.EnsureDir(productPicDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to prepare image storage")
		return
	}
	if err := utils.EnsureDir(filepath.Join(productPicDir, "thumb")); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to prepare image storage")
		return
	}

	ext := filepath.Ext(utils.SanitizeFilename(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := id + "-" + utils.GenerateRandomString(8) + ext
	origPath := filepath.Join(productPicDir, name)

	dst, err := os.Create(origPath)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}
	dst.Close()

	img, err := imaging.Open(origPath)
	if err != nil {
		log.Printf("UploadProductImage decode error: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Unreadable image file")
		return
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(productPicDir, "thumb", name)); err != nil {
		log.Printf("UploadProductImage thumbnail error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create thumbnail")
		return
	}

	_, err = db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": id},
		bson.M{"$set": bson.M{"image": name}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record image")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"image": name})
}
