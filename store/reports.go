package store

import (
	"log"
	"mime"
	"strconv"
	"sync"
	"time"

	"household-services-client/api"
	"household-services-client/models"
)

// defaultReportFilename is used when the download response carries no
// usable Content-Disposition header.
const defaultReportFilename = "report.csv"

// ReportsStore tracks export jobs and generated reports. Unlike the
// other stores it is mutex-guarded, because the export poller drives
// CheckExportStatus from its own goroutine.
type ReportsStore struct {
	client   *api.Client
	notifier *Notifier

	mu sync.Mutex

	exportJobs     []models.ExportJob
	monthlyReports []models.MonthlyReport
	reports        []models.ExportJob
	currentReport  *models.ExportJob
	lastExport     *models.LastExport
	exportStatus   models.ExportStatus
	exportProgress int

	loading             bool
	err                 string
	exportLoading       bool
	exportErr           string
	reportsLoading      bool
	reportsErr          string
	customReportLoading bool
	customReportErr     string
}

func NewReportsStore(client *api.Client, notifier *Notifier) *ReportsStore {
	return &ReportsStore{client: client, notifier: notifier}
}

type jobSubmitResponse struct {
	JobID string `json:"job_id"`
}

// ExportServiceRequests submits a service-request export job. The job
// enters processing state here and advances through CheckExportStatus.
func (r *ReportsStore) ExportServiceRequests(professionalID uint, filterType, email string) (string, error) {
	params := map[string]string{"filter_type": filterType, "email": email}
	if professionalID != 0 {
		params["professional_id"] = strconv.FormatUint(uint64(professionalID), 10)
	}
	return r.submitExport("/admin/export/service-requests", "service-requests", params,
		"Failed to export data",
		"Export started successfully. You will receive an email when it's complete.")
}

// GenerateAdminReport submits a platform report job.
func (r *ReportsStore) GenerateAdminReport(reportType, email string) (string, error) {
	params := map[string]string{"report_type": reportType, "email": email}
	return r.submitExport("/admin/export/report", "admin-report", params,
		"Failed to generate report",
		"Report generation started. You will receive an email when it's complete.")
}

// GenerateMonthlyReport submits a monthly report job.
func (r *ReportsStore) GenerateMonthlyReport(month, year int, email string) (string, error) {
	params := map[string]string{"email": email}
	if month != 0 {
		params["month"] = strconv.Itoa(month)
	}
	if year != 0 {
		params["year"] = strconv.Itoa(year)
	}
	return r.submitExport("/admin/export/monthly-report", "monthly-report", params,
		"Failed to generate monthly report",
		"Monthly report generation started. You will receive an email when it's complete.")
}

func (r *ReportsStore) submitExport(path, exportType string, params map[string]string, fallback, successMsg string) (string, error) {
	r.mu.Lock()
	r.loading = true
	r.err = ""
	r.exportStatus = models.ExportProcessing
	r.exportProgress = 0
	r.mu.Unlock()
	defer r.setLoading(false)

	var resp jobSubmitResponse
	if err := r.client.Post(path+api.BuildQuery(params), nil, &resp); err != nil {
		r.mu.Lock()
		r.err = api.ServerMessage(err, fallback)
		r.exportStatus = models.ExportFailed
		r.mu.Unlock()
		r.notifier.Error(api.ServerMessage(err, fallback))
		return "", err
	}

	r.mu.Lock()
	r.lastExport = &models.LastExport{
		Type:      exportType,
		Timestamp: time.Now(),
		Params:    params,
		JobID:     resp.JobID,
	}
	r.mu.Unlock()

	r.notifier.Success(successMsg)
	return resp.JobID, nil
}

// CheckExportStatus polls one job. Progress only ever moves forward: a
// stale or out-of-order response can never roll the bar back, and a
// completed job always reads 100.
func (r *ReportsStore) CheckExportStatus(jobID string) (*models.ExportJob, error) {
	var job models.ExportJob
	if err := r.client.Get("/admin/exports/"+jobID, &job); err != nil {
		log.Printf("failed to check export status: %v", err)
		return nil, err
	}

	r.mu.Lock()
	if job.Status == models.ExportCompleted {
		job.Progress = 100
	} else if job.Progress < r.exportProgress {
		job.Progress = r.exportProgress
	}
	r.exportStatus = job.Status
	r.exportProgress = job.Progress
	r.mu.Unlock()

	return &job, nil
}

// FetchReports loads the export/report listing.
func (r *ReportsStore) FetchReports() ([]models.ExportJob, error) {
	r.setLoading(true)
	r.setError("")
	defer r.setLoading(false)

	var reports []models.ExportJob
	if err := r.client.Get("/admin/exports", &reports); err != nil {
		msg := api.ServerMessage(err, "Failed to fetch reports")
		r.setError(msg)
		r.notifier.Error(msg)
		return nil, err
	}

	r.mu.Lock()
	r.reports = reports
	r.mu.Unlock()
	return reports, nil
}

// FetchReport loads one report into the current slot.
func (r *ReportsStore) FetchReport(reportID string) (*models.ExportJob, error) {
	r.setLoading(true)
	r.setError("")
	defer r.setLoading(false)

	var report models.ExportJob
	if err := r.client.Get("/admin/exports/"+reportID, &report); err != nil {
		msg := api.ServerMessage(err, "Failed to fetch report")
		r.setError(msg)
		r.notifier.Error(msg)
		return nil, err
	}

	r.mu.Lock()
	r.currentReport = &report
	r.mu.Unlock()
	return &report, nil
}

// DownloadReport fetches the report payload. The filename comes from
// the Content-Disposition header, falling back to report.csv when the
// header is absent or unparsable.
func (r *ReportsStore) DownloadReport(reportID string) (string, []byte, error) {
	r.setLoading(true)
	r.setError("")
	defer r.setLoading(false)

	data, headers, err := r.client.Download("/admin/exports/" + reportID + "/download")
	if err != nil {
		r.setError("Failed to download report")
		r.notifier.Error("Failed to download report")
		return "", nil, err
	}

	filename := defaultReportFilename
	if disposition := headers.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				filename = name
			}
		}
	}
	return filename, data, nil
}

// FetchExportJobs loads the export-job listing.
func (r *ReportsStore) FetchExportJobs() ([]models.ExportJob, error) {
	r.mu.Lock()
	r.exportLoading = true
	r.exportErr = ""
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.exportLoading = false
		r.mu.Unlock()
	}()

	var jobs []models.ExportJob
	if err := r.client.Get("/admin/reports/export-jobs", &jobs); err != nil {
		msg := api.ServerMessage(err, "Failed to fetch export jobs")
		r.mu.Lock()
		r.exportErr = msg
		r.mu.Unlock()
		r.notifier.Error(msg)
		return nil, err
	}

	r.mu.Lock()
	r.exportJobs = jobs
	r.mu.Unlock()
	return jobs, nil
}

// CreateExportJob submits a parameterised export job and refreshes the
// job listing.
func (r *ReportsStore) CreateExportJob(create models.ExportJobCreate) (*models.ExportJob, error) {
	r.mu.Lock()
	r.exportLoading = true
	r.exportErr = ""
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.exportLoading = false
		r.mu.Unlock()
	}()

	var resp struct {
		Job models.ExportJob `json:"job"`
	}
	if err := r.client.Post("/admin/reports/export-jobs", create, &resp); err != nil {
		msg := api.ServerMessage(err, "Failed to create export job")
		r.mu.Lock()
		r.exportErr = msg
		r.mu.Unlock()
		r.notifier.Error(msg)
		return nil, err
	}

	r.notifier.Success("Export job created successfully")
	if _, err := r.FetchExportJobs(); err != nil {
		log.Printf("failed to refresh export jobs: %v", err)
	}
	return &resp.Job, nil
}

// FetchMonthlyReports loads the monthly report history.
func (r *ReportsStore) FetchMonthlyReports() ([]models.MonthlyReport, error) {
	r.mu.Lock()
	r.reportsLoading = true
	r.reportsErr = ""
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.reportsLoading = false
		r.mu.Unlock()
	}()

	var reports []models.MonthlyReport
	if err := r.client.Get("/admin/reports/monthly", &reports); err != nil {
		log.Printf("error fetching monthly reports: %v", err)
		r.mu.Lock()
		r.reportsErr = api.ServerMessage(err, "Failed to fetch monthly reports")
		r.mu.Unlock()
		return nil, err
	}

	r.mu.Lock()
	r.monthlyReports = reports
	r.mu.Unlock()
	return reports, nil
}

// GenerateReport requests a custom report over a date range.
func (r *ReportsStore) GenerateReport(startDate, endDate, reportType string) (*models.ExportJob, error) {
	r.mu.Lock()
	r.customReportLoading = true
	r.customReportErr = ""
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.customReportLoading = false
		r.mu.Unlock()
	}()

	body := map[string]string{
		"start_date":  startDate,
		"end_date":    endDate,
		"report_type": reportType,
	}
	var job models.ExportJob
	if err := r.client.Post("/admin/reports/generate", body, &job); err != nil {
		log.Printf("error generating report: %v", err)
		r.mu.Lock()
		r.customReportErr = api.ServerMessage(err, "Failed to generate report")
		r.mu.Unlock()
		return nil, err
	}
	return &job, nil
}

// ResetExportStatus clears the tracked job state.
func (r *ReportsStore) ResetExportStatus() {
	r.mu.Lock()
	r.exportStatus = ""
	r.exportProgress = 0
	r.mu.Unlock()
}

func (r *ReportsStore) ExportStatus() models.ExportStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exportStatus
}

func (r *ReportsStore) ExportProgress() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exportProgress
}

func (r *ReportsStore) LastExport() *models.LastExport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastExport
}

func (r *ReportsStore) ExportJobs() []models.ExportJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ExportJob, len(r.exportJobs))
	copy(out, r.exportJobs)
	return out
}

func (r *ReportsStore) MonthlyReports() []models.MonthlyReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.MonthlyReport, len(r.monthlyReports))
	copy(out, r.monthlyReports)
	return out
}

func (r *ReportsStore) Reports() []models.ExportJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ExportJob, len(r.reports))
	copy(out, r.reports)
	return out
}

func (r *ReportsStore) CurrentReport() *models.ExportJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.currentReport == nil {
		return nil
	}
	report := *r.currentReport
	return &report
}

func (r *ReportsStore) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

func (r *ReportsStore) Error() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *ReportsStore) ExportLoading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exportLoading
}

func (r *ReportsStore) ExportError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exportErr
}

func (r *ReportsStore) ReportsLoading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reportsLoading
}

func (r *ReportsStore) ReportsError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reportsErr
}

func (r *ReportsStore) CustomReportLoading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customReportLoading
}

func (r *ReportsStore) CustomReportError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customReportErr
}

func (r *ReportsStore) ClearError() {
	r.mu.Lock()
	r.err = ""
	r.mu.Unlock()
}

func (r *ReportsStore) setLoading(v bool) {
	r.mu.Lock()
	r.loading = v
	r.mu.Unlock()
}

func (r *ReportsStore) setError(msg string) {
	r.mu.Lock()
	r.err = msg
	r.mu.Unlock()
}
