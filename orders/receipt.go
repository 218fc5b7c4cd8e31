package orders

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"camellia/db"
	"camellia/models"
	"camellia/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// OrderReceipt renders a PDF receipt for a committed order. The QR code
// carries the order id and issue timestamp for delivery verification.
// Only the order's owner or an admin may fetch it.
// GET /api/orders/:orderId/receipt
func OrderReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderId")

	email := utils.GetUserIDFromRequest(r)
	if email == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	if order.Email != email && utils.GetUserRoleFromRequest(r) != "admin" {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	qrData := fmt.Sprintf("oid=%s&ts=%d", order.OrderID, time.Now().Unix())
	qrPNG, err := qrcode.Encode(qrData, qrcode.Medium, 128)
	if err != nil {
		// The receipt is still valid without the verification code.
		log.Println("OrderReceipt QR encode error:", err)
		qrPNG = nil
	}

	buf, err := buildReceiptPDF(order, qrPNG)
	if err != nil {
		log.Println("OrderReceipt PDF error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.OrderID+".pdf")
	w.Write(buf.Bytes())
}

// buildReceiptPDF lays out the receipt document. An empty qrPNG omits the
// QR block rather than registering a broken image.
func buildReceiptPDF(order models.Order, qrPNG []byte) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 15, "Order Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 8, fmt.Sprintf(
		"Order: %s\nName: %s\nAddress: %s\nPhone: %s\nStatus: %s\nPlaced: %s",
		order.OrderID,
		order.Name,
		order.Address,
		order.Phone,
		order.Status,
		order.Date.Format("02 Jan 2006 15:04"),
	), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Items", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		line := fmt.Sprintf("%s x %d", item.Name, item.Quantity)
		if item.Pieces > 0 {
			line = fmt.Sprintf("%s (%d pieces) x %d", item.Name, item.Pieces, item.Quantity)
		}
		pdf.CellFormat(120, 8, line, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, fmt.Sprintf("%.2f", item.TotalPrice), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 10, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("%.2f", order.Total), "T", 1, "R", false, 0, "")

	if len(qrPNG) > 0 {
		imgOpts := gofpdf.ImageOptions{ImageType: "png"}
		pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("qr", 150, 230, 40, 40, false, imgOpts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
