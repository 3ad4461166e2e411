package activity

import (
	"log"

	"assetregister/pkg/models"
)

// Recorder persists activity rows for the resources that change state:
// assets, transfers, audits, maintenance records.
type Recorder struct {
	r Repository
}

type Repository interface {
	PersistLog(entry models.ActivityLog, data interface{}) error
}

type Loggable interface {
	CreateLogView() models.ActivityLog
}

func (a *Recorder) Log(action string, data interface{}, item Loggable) {
	entry := item.CreateLogView()
	entry.Action = action

	err := a.r.PersistLog(entry, data)

	if err != nil {
		log.Println("Unable to create activity log entry for id ", entry.ResourceID)
		return
	}
}

func NewRecorder(repository Repository) *Recorder {
	a := Recorder{r: repository}

	return &a
}
