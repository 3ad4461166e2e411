package reports

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// snapshotSchedule runs shortly after midnight on the first of each
// month, valuing the register as of the last day of the previous month.
const snapshotSchedule = "15 0 1 * *"

type SnapshotScheduler struct {
	service    *ReportService
	repository *SnapshotRepository
	cron       *cron.Cron
}

func NewSnapshotScheduler(service *ReportService, repository *SnapshotRepository) *SnapshotScheduler {
	return &SnapshotScheduler{
		service:    service,
		repository: repository,
		cron:       cron.New(),
	}
}

func (s *SnapshotScheduler) Start() error {
	if _, err := s.cron.AddFunc(snapshotSchedule, s.RunSnapshot); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *SnapshotScheduler) Stop() {
	s.cron.Stop()
}

// RunSnapshot builds and stores the month-end valuation. Also callable
// directly for backfills.
func (s *SnapshotScheduler) RunSnapshot() {
	asOf := lastDayOfPreviousMonth(time.Now())

	report, err := s.service.BuildValuationReport(asOf)
	if err != nil {
		log.Printf("valuation snapshot for %s failed: %v", asOf.Format("2006-01-02"), err)
		return
	}

	if err := s.repository.PersistReport(report); err != nil {
		log.Printf("could not store valuation snapshot for %s: %v", asOf.Format("2006-01-02"), err)
		return
	}

	log.Printf("stored valuation snapshot for %s covering %d assets", asOf.Format("2006-01-02"), len(report.Lines))
}

func lastDayOfPreviousMonth(now time.Time) time.Time {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return firstOfMonth.AddDate(0, 0, -1)
}
