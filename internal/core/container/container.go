package container

import (
	"database/sql"
	"log"

	activityrepo "assetregister/internal/activity"
	"assetregister/internal/assets"
	"assetregister/internal/audits"
	"assetregister/internal/departments"
	"assetregister/internal/lifecycle"
	"assetregister/internal/locations"
	"assetregister/internal/maintenance"
	"assetregister/internal/registry"
	"assetregister/internal/reports"
	"assetregister/internal/transfers"
	"assetregister/internal/users"
	"assetregister/internal/valuation"
	"assetregister/pkg/activity"
	"assetregister/pkg/security"
)

type Container struct {
	Repository         *registry.Repository
	Recorder           *activity.Recorder
	LoginHandler       *security.LoginHandler
	AssetHandler       *assets.AssetHandler
	LifecycleHandler   *lifecycle.Handler
	TransferHandler    *transfers.TransferHandler
	AuditHandler       *audits.AuditHandler
	MaintenanceHandler *maintenance.Handler
	ValuationHandler   *valuation.Handler
	ReportHandler      *reports.Handler
	UserHandler        *users.UsersHandler
	LocationHandler    *locations.LocationHandler
	DepartmentHandler  *departments.DepartmentHandler
	SnapshotScheduler  *reports.SnapshotScheduler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := registry.NewRepository(db)
	activityLogRepo := activityrepo.NewRepository(repo)
	recorder := activity.NewRecorder(activityLogRepo)

	loginHandler := security.NewLoginHandler(repo)

	assetService := assets.NewAssetService(repo, recorder)
	assetHandler := assets.NewAssetHandler(repo, assetService, activityLogRepo)

	lifecycleService := lifecycle.NewService(repo, repo, recorder)
	lifecycleHandler := lifecycle.NewHandler(lifecycleService)

	maintenanceRepo := maintenance.NewMaintenanceRepository(repo)
	maintenanceService := maintenance.NewService(maintenanceRepo, lifecycleService, recorder)
	maintenanceHandler := maintenance.NewHandler(maintenanceService)
	lifecycleService.SetMaintenanceOpener(maintenanceService)

	transferRepo := transfers.NewRepository(repo)
	transferService := transfers.NewTransferService(repo, transferRepo, repo, recorder)
	transferHandler := transfers.NewHandler(transferService)

	auditRepo := audits.NewRepository(repo)
	auditService := audits.NewAuditService(repo, auditRepo, repo, recorder)
	auditHandler := audits.NewHandler(auditService)

	valuationHandler := valuation.NewHandler(repo)

	reportService := reports.NewReportService(repo)
	snapshotRepo := reports.NewSnapshotRepository(repo)
	snapshotScheduler := reports.NewSnapshotScheduler(reportService, snapshotRepo)
	sheetsExporter, err := reports.NewSheetsExporter()
	if err != nil {
		// The export endpoint stays registered and reports the missing
		// configuration; everything else works without Sheets.
		log.Printf("Google Sheets export disabled: %v", err)
		sheetsExporter = nil
	}
	reportHandler := reports.NewHandler(reportService, snapshotRepo, sheetsExporter)

	userRepo := users.NewRepository(repo)
	userHandler := users.NewHandler(userRepo)

	locationRepo := locations.NewLocationRepository(repo)
	locationHandler := locations.NewLocationHandler(locationRepo, repo)

	departmentRepo := departments.NewDepartmentRepository(repo)
	departmentHandler := departments.NewDepartmentHandler(departmentRepo)

	return &Container{
		Repository:         repo,
		Recorder:           recorder,
		LoginHandler:       loginHandler,
		AssetHandler:       assetHandler,
		LifecycleHandler:   lifecycleHandler,
		TransferHandler:    transferHandler,
		AuditHandler:       auditHandler,
		MaintenanceHandler: maintenanceHandler,
		ValuationHandler:   valuationHandler,
		ReportHandler:      reportHandler,
		UserHandler:        userHandler,
		LocationHandler:    locationHandler,
		DepartmentHandler:  departmentHandler,
		SnapshotScheduler:  snapshotScheduler,
	}
}
