package jobs

import (
	"log"
	"time"

	"household-services-client/models"
	"household-services-client/store"
)

// ExportPoller drives ReportsStore.CheckExportStatus on a ticker until
// the job reaches a terminal state.
type ExportPoller struct {
	reports  *store.ReportsStore
	jobID    string
	interval time.Duration
	stopChan chan bool

	// OnUpdate, when set, receives every successfully polled job state,
	// including the terminal one.
	OnUpdate func(models.ExportJob)
}

// NewExportPoller creates a poller for the given export job.
func NewExportPoller(reports *store.ReportsStore, jobID string, interval time.Duration) *ExportPoller {
	return &ExportPoller{
		reports:  reports,
		jobID:    jobID,
		interval: interval,
		stopChan: make(chan bool, 1),
	}
}

// Start begins polling in the background.
func (p *ExportPoller) Start() {
	go p.run()
	log.Printf("export poller started for job %s", p.jobID)
}

// Stop halts polling. Safe to call after the poller has already
// finished on its own.
func (p *ExportPoller) Stop() {
	select {
	case p.stopChan <- true:
	default:
	}
}

func (p *ExportPoller) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			job, err := p.reports.CheckExportStatus(p.jobID)
			if err != nil {
				log.Printf("export poll failed for job %s: %v", p.jobID, err)
				continue
			}
			if p.OnUpdate != nil {
				p.OnUpdate(*job)
			}
			if job.Status.Terminal() {
				log.Printf("export job %s finished with status %s", p.jobID, job.Status)
				return
			}
		case <-p.stopChan:
			return
		}
	}
}
