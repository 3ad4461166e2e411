package lifecycle

import (
	"github.com/doug-martin/goqu/v9"

	"assetregister/pkg/activity"
	"assetregister/pkg/models"
)

// MaintenanceOpener is implemented by the maintenance package; entering
// under_maintenance opens a work record for the asset.
type MaintenanceOpener interface {
	OpenForAsset(assetID int, reason string, reportedBy int) error
}

type AssetStore interface {
	GetAssetForUpdate(tx *goqu.TxDatabase, assetID int) (*models.Asset, error)
	UpdateAssetLifecycle(tx *goqu.TxDatabase, asset models.Asset) error
}

type TxRunner interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
}

type Service struct {
	db          TxRunner
	assets      AssetStore
	recorder    *activity.Recorder
	maintenance MaintenanceOpener
}

func NewService(db TxRunner, assets AssetStore, recorder *activity.Recorder) *Service {
	return &Service{
		db:       db,
		assets:   assets,
		recorder: recorder,
	}
}

// SetMaintenanceOpener breaks the wiring cycle between lifecycle and
// maintenance: maintenance resolution drives transitions here, while
// starting maintenance opens a record there.
func (s *Service) SetMaintenanceOpener(opener MaintenanceOpener) {
	s.maintenance = opener
}

// TransitionStatus applies one lifecycle event to the asset and persists
// the result. The read, the transition check and the write share one
// transaction with the asset row locked, so two concurrent transitions
// serialize and the loser re-checks against the committed status. On any
// error the stored asset is unchanged.
func (s *Service) TransitionStatus(assetID int, event Event, payload Payload, actorID int) (*models.Asset, error) {
	var prev, next models.Asset
	err := s.db.WithTx(func(tx *goqu.TxDatabase) error {
		asset, err := s.assets.GetAssetForUpdate(tx, assetID)
		if err != nil {
			return err
		}
		prev = *asset

		applied, err := Apply(*asset, event, payload)
		if err != nil {
			return err
		}
		next = applied

		return s.assets.UpdateAssetLifecycle(tx, next)
	})
	if err != nil {
		return nil, err
	}

	if event == EventStartMaintenance && s.maintenance != nil {
		if err := s.maintenance.OpenForAsset(next.ID, payload.Reason, actorID); err != nil {
			// The transition itself has committed; a failed work record is
			// recoverable from the maintenance queue.
			s.recorder.Log("maintenance_record_failed", map[string]interface{}{"error": err.Error()}, &next)
		}
	}

	go s.recorder.Log(
		"status_change",
		map[string]interface{}{
			"event":    string(event),
			"from":     prev.Status.String(),
			"to":       next.Status.String(),
			"actor_id": actorID,
		},
		&next,
	)

	return &next, nil
}
