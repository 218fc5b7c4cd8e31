package orders

import (
	"bytes"
	"testing"
	"time"

	"camellia/models"

	"github.com/skip2/go-qrcode"
)

func sampleOrder() models.Order {
	return models.Order{
		OrderID: "CM00042",
		Email:   "alice@example.com",
		Name:    "Alice",
		Address: "12 Cocoa Lane",
		Phone:   "5550100",
		Items: []models.OrderItem{
			{Name: "ChocE NutMelt", Quantity: 2, Pieces: 12, TotalPrice: 1500},
		},
		Total:  1500,
		Status: StatusPending,
		Date:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildReceiptPDF(t *testing.T) {
	qrPNG, err := qrcode.Encode("oid=CM00042&ts=0", qrcode.Medium, 128)
	if err != nil {
		t.Fatalf("qrcode.Encode: %v", err)
	}

	buf, err := buildReceiptPDF(sampleOrder(), qrPNG)
	if err != nil {
		t.Fatalf("buildReceiptPDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestBuildReceiptPDFWithoutQR(t *testing.T) {
	// A QR encoding failure must degrade to a receipt without the code, not
	// a broken document.
	buf, err := buildReceiptPDF(sampleOrder(), nil)
	if err != nil {
		t.Fatalf("buildReceiptPDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}
