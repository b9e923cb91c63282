// Package pdf renders booking confirmations and payment receipts.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"ticketing/internal/models"
)

const (
	ContentType = "application/pdf"
	timeLayout  = "2006-01-02 15:04 MST"
)

type Renderer struct {
	title string
}

func NewRenderer(title string) *Renderer {
	return &Renderer{title: title}
}

func BookingFilename(bookingID int64) string {
	return fmt.Sprintf("booking_%d.pdf", bookingID)
}

func ReceiptFilename(paymentID int64) string {
	return fmt.Sprintf("receipt_%d.pdf", paymentID)
}

type row struct {
	label, value string
}

func (r *Renderer) Booking(w io.Writer, b models.BookingView) error {
	rows := []row{
		{"Booking", fmt.Sprintf("#%d", b.ID)},
		{"Confirmation code", b.ConfirmationCode},
		{"Event", b.EventName},
		{"Venue", b.VenueName},
		{"Starts", b.EventStart.Format(timeLayout)},
		{"Ends", b.EventEnd.Format(timeLayout)},
		{"Ticket type", b.TicketType},
		{"Tickets", fmt.Sprintf("%d", b.Quantity)},
		{"Total", b.TotalPrice.StringFixed(2)},
		{"Status", fmt.Sprintf("%s / %s", b.BookingStatus, b.PaymentStatus)},
		{"Booked at", b.CreatedAt.Format(timeLayout)},
	}
	if b.PaymentDate != nil {
		rows = append(rows, row{"Paid at", b.PaymentDate.Format(timeLayout)})
	}

	return r.render(w, "Booking confirmation", rows)
}

func (r *Renderer) Receipt(w io.Writer, rc models.Receipt) error {
	rows := []row{
		{"Receipt", fmt.Sprintf("#%d", rc.ID)},
		{"Booking", fmt.Sprintf("#%d", rc.BookingID)},
		{"Event", rc.EventName},
		{"Venue", rc.VenueName},
		{"Starts", rc.EventStart.Format(timeLayout)},
		{"Tickets", fmt.Sprintf("%d", rc.Quantity)},
		{"Amount", rc.Amount.StringFixed(2)},
		{"Method", rc.Method},
		{"Status", string(rc.Status)},
		{"Paid at", rc.PaidAt.Format(timeLayout)},
	}

	return r.render(w, "Payment receipt", rows)
}

func (r *Renderer) render(w io.Writer, heading string, rows []row) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(heading, true)
	doc.SetCreationDate(time.Now())
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, r.title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 14)
	doc.CellFormat(0, 10, heading, "B", 1, "L", false, 0, "")
	doc.Ln(4)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	for _, rw := range rows {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(55, 8, rw.label, "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 8, tr(rw.value), "", 1, "L", false, 0, "")
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}

	return nil
}
