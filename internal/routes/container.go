package routes

import (
	"time"

	"jagakampung-backend/internal/lock"
	"jagakampung-backend/internal/notification"
	"jagakampung-backend/internal/repository"
	"jagakampung-backend/internal/storage"
	"jagakampung-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container menampung dependency yang dibagi oleh semua Setup*Routes.
type Container struct {
	Residents     repository.ResidentRepository
	Wards         repository.WardRepository
	Rosters       repository.RosterRepository
	Attendances   repository.AttendanceRepository
	Notifications repository.NotificationRepository

	Locker   lock.Locker
	Storage  storage.Storage
	Notifier notification.Notifier
	Log      *logrus.Logger
	Location *time.Location

	JWTSecret     string
	MinRosterYear int
	PhotoWidth    int

	// Now hanya diisi di test; kosong berarti time.Now.
	Now func() time.Time
}

// NewRepositories mengisi repository berbasis gorm ke Container.
func (c *Container) NewRepositories(db *gorm.DB) {
	c.Residents = repository.NewResidentRepository(db)
	c.Wards = repository.NewWardRepository(db)
	c.Rosters = repository.NewRosterRepository(db)
	c.Attendances = repository.NewAttendanceRepository(db)
	c.Notifications = repository.NewNotificationRepository(db)
}

// SetupAll mendaftarkan seluruh route API.
func SetupAll(app *fiber.App, c *Container) {
	SetupAuthRoutes(app, c)
	SetupWardRoutes(app, c)
	SetupRosterRoutes(app, c)
	SetupAttendanceRoutes(app, c)
	SetupReportRoutes(app, c)
	SetupNotificationRoutes(app, c)
}

func (c *Container) rosterUsecase() *usecase.RosterUsecase {
	return usecase.NewRosterUsecase(c.Rosters, c.Locker, c.Notifier, c.Log, c.MinRosterYear)
}

func (c *Container) attendanceUsecase() *usecase.AttendanceUsecase {
	return usecase.NewAttendanceUsecase(usecase.AttendanceDeps{
		Attendances: c.Attendances,
		Rosters:     c.Rosters,
		Residents:   c.Residents,
		Wards:       c.Wards,
		Storage:     c.Storage,
		Locker:      c.Locker,
		Notifier:    c.Notifier,
		Log:         c.Log,
		Location:    c.Location,
		PhotoWidth:  c.PhotoWidth,
		Now:         c.Now,
	})
}
