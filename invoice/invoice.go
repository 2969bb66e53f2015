package invoice

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"

	"retailpro/currency"
	"retailpro/db"
	"retailpro/models"
	"retailpro/utils"
)

// Handler renders order invoices as PDFs.
type Handler struct {
	Store *db.Store
}

func NewHandler(store *db.Store) *Handler {
	return &Handler{Store: store}
}

// PrintInvoice streams a PDF invoice for the caller's order.
func (h *Handler) PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var order models.Order
	err := h.Store.Orders.FindOne(ctx, bson.M{"orderId": orderID, "userId": userID}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	cur, err := h.Store.OrderLines.Find(ctx, bson.M{"orderId": orderID})
	if err != nil {
		log.Println("Invoice lines error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load order lines")
		return
	}
	defer cur.Close(ctx)

	var lines []models.OrderLine
	if err := cur.All(ctx, &lines); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode order lines")
		return
	}

	names := h.productNames(ctx, lines)

	// QR payload lets support staff pull the order up by scanning.
	qrData := fmt.Sprintf("order=%s&status=%s&ts=%d", order.OrderID, order.Status, time.Now().Unix())
	qrCode, _ := qrcode.Encode(qrData, qrcode.Medium, 128)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 15, "RetailPro Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 8, fmt.Sprintf(
		"Order ID: %s\nStatus: %s\nPlaced: %s\nShipping: %s",
		order.OrderID,
		order.Status,
		order.CreatedAt.Format("02 Jan 2006 15:04"),
		order.ShippingMethod,
	), "", "L", false)
	if order.TrackingNumber != "" {
		pdf.MultiCell(0, 8, fmt.Sprintf("Tracking: %s (%s)", order.TrackingNumber, order.ShippingCarrier), "", "L", false)
	}
	pdf.Ln(5)

	// Line items table
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Unit", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, line := range lines {
		name := names[line.ProductID]
		if name == "" {
			name = line.ProductID
		}
		amount := line.UnitPrice * currency.Paise(line.Quantity)
		pdf.CellFormat(90, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, "Rs "+line.UnitPrice.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, "Rs "+amount.String(), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 8, fmt.Sprintf(
		"Subtotal: Rs %s\nGST (18%%): Rs %s\nShipping: Rs %s",
		order.Subtotal.String(), order.Tax.String(), order.Shipping.String(),
	), "", "R", false)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 10, "Total: Rs "+order.Total.String(), "T", 1, "R", false, 0, "")

	imgOpts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrCode))
	pdf.ImageOptions("qr", 150, 30, 35, 35, false, imgOpts, 0, "")

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 10, "Thank you for shopping with RetailPro.", "T", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+orderID+".pdf")
	w.Write(buf.Bytes())
}

func (h *Handler) productNames(ctx context.Context, lines []models.OrderLine) map[string]string {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names
	}

	cur, err := h.Store.Products.Find(ctx, bson.M{"productId": bson.M{"$in": ids}})
	if err != nil {
		log.Println("Invoice product lookup error:", err)
		return names
	}
	defer cur.Close(ctx)

	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return names
	}
	for _, p := range products {
		names[p.ProductID] = p.Name
	}
	return names
}
