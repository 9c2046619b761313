package donation

import (
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"time"
)

// maxExportRows bounds a single CSV export.
const maxExportRows = 50000

var exportHeader = []string{
	"ID", "Name", "Email", "Phone",
	"Amount", "Type", "Status",
	"Razorpay Order ID", "Razorpay Payment ID", "Paid At", "Created At",
}

// WriteCSV writes donations as CSV with a header row.
func WriteCSV(w io.Writer, donations []*Donation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, d := range donations {
		paidAt := ""
		if d.PaidAt != nil {
			paidAt = d.PaidAt.UTC().Format(time.RFC3339)
		}
		paymentID := ""
		if d.RazorpayPaymentID != nil {
			paymentID = *d.RazorpayPaymentID
		}
		record := []string{
			d.ID, d.Name, d.Email, d.Phone,
			strconv.FormatInt(d.Amount, 10), d.Type, d.Status,
			d.OrderID(), paymentID, paidAt, d.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportDonations streams the donation list as donations.csv. It accepts the
// same status and type filters as ListDonations.
func (h *Handler) ExportDonations(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
		Limit:  maxExportRows,
	}
	donations, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="donations.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := WriteCSV(w, donations); err != nil {
		h.Logger.Error("ExportDonations: failed to write csv", "error", err)
		return
	}
	h.Logger.Info("ExportDonations: exported donations", "count", len(donations))
}
