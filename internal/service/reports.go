package service

import (
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/repository"
)

// ReportService computes admin dashboards and sales reports.
type ReportService struct {
	store *repository.Store
}

// NewReportService constructs a ReportService.
func NewReportService(store *repository.Store) *ReportService {
	return &ReportService{store: store}
}

// Stats returns tickets sold, revenue and overall workshop load.
func (s *ReportService) Stats(sess model.Session) (model.DashboardStats, error) {
	if err := requireAdmin(sess); err != nil {
		return model.DashboardStats{}, err
	}
	var stats model.DashboardStats
	for _, a := range s.store.Attendees() {
		if a.Ticket != nil {
			stats.TicketsSold++
			stats.Revenue += a.Ticket.Price
		}
	}
	capacity, booked := 0, 0
	for _, w := range s.store.Workshops() {
		capacity += w.Capacity
		booked += w.Booked
	}
	if capacity > 0 {
		stats.WorkshopLoad = booked * 100 / capacity
	}
	return stats, nil
}

// DailySales lists the tickets purchased on date (YYYY-MM-DD).
func (s *ReportService) DailySales(sess model.Session, date string) (model.SalesReport, error) {
	if err := requireAdmin(sess); err != nil {
		return model.SalesReport{}, err
	}
	date = strings.TrimSpace(date)
	if !dateRe.MatchString(date) {
		return model.SalesReport{}, invalid("date", "use YYYY-MM-DD")
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return model.SalesReport{}, invalid("date", "%v", err)
	}

	report := model.SalesReport{Date: date, Lines: []model.SalesLine{}}
	for _, a := range s.store.Attendees() {
		t := a.Ticket
		if t == nil || t.PurchaseDay() != date {
			continue
		}
		report.Transactions++
		report.Revenue += t.Price
		if t.Type == model.TicketAllAccess {
			report.AllAccess++
		} else {
			report.StandardPasses++
		}
		report.Lines = append(report.Lines, model.SalesLine{TicketID: t.ID, Type: t.Type, Price: t.Price})
	}
	return report, nil
}

// FindAttendee looks an attendee up by email for the admin screens.
func (s *ReportService) FindAttendee(sess model.Session, email string) (model.AttendeeSummary, error) {
	if err := requireAdmin(sess); err != nil {
		return model.AttendeeSummary{}, err
	}
	a, err := s.store.Attendee(email)
	if err != nil {
		return model.AttendeeSummary{}, err
	}
	return a.Summary(), nil
}
