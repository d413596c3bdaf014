package orders

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"vestire/db"
	"vestire/globals"
	"vestire/models"
	"vestire/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// receiptPayload builds the QR content: orderid|userid|timestamp|signature.
// The signature lets the store verify a printed receipt offline.
func receiptPayload(orderID, userID string) string {
	data := fmt.Sprintf("%s|%s|%d", orderID, userID, time.Now().Unix())

	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// OrderReceipt renders a paid order as a PDF with a signed QR code. Unpaid
// orders have nothing to prove yet and get a 400.
func OrderReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("id")

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID, "userid": userID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.Status == models.StatusPending {
		utils.RespondWithError(w, http.StatusBadRequest, "Receipts are only available for paid orders")
		return
	}

	qrPNG, err := qrcode.Encode(receiptPayload(order.OrderID, userID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(8)
	if order.PaidAt != nil {
		pdf.Cell(0, 10, fmt.Sprintf("Paid at: %s", order.PaidAt.Format("2006-01-02 15:04")))
		pdf.Ln(8)
	}
	pdf.Cell(0, 10, fmt.Sprintf("Shipping: %s", order.ShippingMethod))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Items")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, it := range order.Items {
		line := fmt.Sprintf("%dx %s", it.Quantity, it.ProductName)
		if it.Size != "" {
			line += fmt.Sprintf(" (size %s)", it.Size)
		}
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Total: $%.2f", order.TotalAmount))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
