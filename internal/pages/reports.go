package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/toast"
)

const dateOnly = "2006-01-02"

// ReportAPI is the slice of the POS client the reports page needs.
type ReportAPI interface {
	SalesReport(ctx context.Context, start, end time.Time) ([]byte, error)
	InventoryReport(ctx context.Context) ([]byte, error)
}

// Reports drives the report download view.
type Reports struct {
	api    ReportAPI
	saver  Saver
	toasts *toast.Queue
	log    zerolog.Logger
	now    func() time.Time
}

func NewReports(reportAPI ReportAPI, saver Saver, toasts *toast.Queue, log zerolog.Logger) *Reports {
	return &Reports{
		api:    reportAPI,
		saver:  saver,
		toasts: toasts,
		log:    log,
		now:    time.Now,
	}
}

// DownloadSales fetches the sales report for an inclusive date range given as
// YYYY-MM-DD strings and saves it as sales-report-{start}-to-{end}.tsv. The
// range is widened to day-start and day-end UTC instants before the call.
func (p *Reports) DownloadSales(ctx context.Context, startStr, endStr string) error {
	if startStr == "" || endStr == "" {
		p.toasts.ShowError("Please select both start and end dates.")
		return errInputRejected
	}
	start, err := time.ParseInLocation(dateOnly, startStr, time.UTC)
	if err != nil {
		p.toasts.ShowError("Invalid start date.")
		return errInputRejected
	}
	end, err := time.ParseInLocation(dateOnly, endStr, time.UTC)
	if err != nil {
		p.toasts.ShowError("Invalid end date.")
		return errInputRejected
	}
	if start.After(end) {
		p.toasts.ShowError("Start date cannot be after end date.")
		return errInputRejected
	}

	data, err := p.api.SalesReport(ctx, start, end.Add(24*time.Hour-time.Second))
	if err != nil {
		notifyAPIError(p.toasts, p.log, err, "downloading the sales report")
		return err
	}

	name := fmt.Sprintf("sales-report-%s-to-%s.tsv", startStr, endStr)
	return p.save(name, data)
}

// DownloadInventory fetches the current inventory report and saves it as
// inventory-report-{today}.tsv.
func (p *Reports) DownloadInventory(ctx context.Context) error {
	data, err := p.api.InventoryReport(ctx)
	if err != nil {
		notifyAPIError(p.toasts, p.log, err, "downloading the inventory report")
		return err
	}

	name := fmt.Sprintf("inventory-report-%s.tsv", p.now().UTC().Format(dateOnly))
	return p.save(name, data)
}

func (p *Reports) save(name string, data []byte) error {
	if len(data) == 0 {
		p.toasts.ShowError("Report file not found or is empty.")
		return errInputRejected
	}
	path, err := p.saver.Save(name, data)
	if err != nil {
		p.log.Error().Err(err).Str("file", name).Msg("reports: saving report failed")
		p.toasts.ShowError("Could not save the report file.")
		return err
	}
	p.toasts.ShowSuccess("Report saved to " + path)
	return nil
}
