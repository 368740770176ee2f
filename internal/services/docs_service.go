package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"

	intconfig "campusshuttle/internal/config"
	"campusshuttle/internal/domain/models"
	"campusshuttle/internal/repositories"
	"campusshuttle/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking receipts as PDF.
type DocsService struct {
	BookingRepo repositories.BookingRepository
	StudentRepo repositories.StudentRepository
	StopRepo    repositories.StopRepository
	RouteRepo   repositories.RouteRepository
	DB          *sql.DB
}

func (s DocsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DocsService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s DocsService) students() repositories.StudentRepository {
	if s.StudentRepo.DB != nil {
		return s.StudentRepo
	}
	return repositories.StudentRepository{DB: s.db()}
}

// GenerateReceipt renders the booking receipt and returns bytes plus a
// download filename.
func (s DocsService) GenerateReceipt(bookingID string) ([]byte, string, error) {
	booking, err := s.bookings().GetByID(bookingID)
	if err != nil {
		return nil, "", err
	}
	student, err := s.students().GetByID(booking.StudentID)
	if err != nil {
		return nil, "", err
	}

	stopNames := map[string]string{}
	stopRepo := s.StopRepo
	if stopRepo.DB == nil {
		stopRepo = repositories.StopRepository{DB: s.db()}
	}
	if stops, err := stopRepo.ListStops(false); err == nil {
		for _, st := range stops {
			stopNames[st.ID] = st.Name
		}
	}
	routeNames := map[string]string{}
	routeRepo := s.RouteRepo
	if routeRepo.DB == nil {
		routeRepo = repositories.RouteRepository{DB: s.db()}
	}
	if routes, err := routeRepo.ListRoutes(false); err == nil {
		for _, rt := range routes {
			routeNames[rt.ID] = rt.Name
		}
	}

	return buildReceiptPDF(booking, student, stopNames, routeNames)
}

func buildReceiptPDF(b models.Booking, st models.Student, stopNames, routeNames map[string]string) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "SHUTTLE BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reference : %s", b.BookingReference),
		fmt.Sprintf("Student   : %s (%s)", nameOr(st.Name, "-"), st.StudentCode),
		fmt.Sprintf("Status    : %s", b.Status),
		fmt.Sprintf("Booked at : %s", utils.FormatISO(b.CreatedAt)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Journey")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, leg := range b.Legs {
		from := nameOr(stopNames[leg.FromStopID], leg.FromStopID)
		to := nameOr(stopNames[leg.ToStopID], leg.ToStopID)
		route := nameOr(routeNames[leg.RouteID], leg.RouteID)
		desc := fmt.Sprintf("%d) %s: %s -> %s at %s (%s pts)",
			leg.LegOrder, route, from, to, utils.FormatISO(leg.ScheduledTime), utils.FormatPoints(leg.Cost))
		pdf.MultiCell(0, 6, desc, "", "", false)
		pdf.Ln(1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatPoints(b.TotalCost)+" pts")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Show this receipt when boarding. Points were deducted from your campus wallet at confirmation time.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", b.BookingReference)
	return buf.Bytes(), filename, nil
}

func nameOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
