// file: internals/features/attendance/attendance_module.go
package attendance

import (
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"kantorku_backend/internals/configs"
	"kantorku_backend/internals/features/attendance/records/controller"
	"kantorku_backend/internals/features/attendance/records/readers"
	"kantorku_backend/internals/features/attendance/records/repository"
	"kantorku_backend/internals/features/attendance/records/scheduler"
	"kantorku_backend/internals/features/attendance/records/service"
	"kantorku_backend/internals/features/attendance/records/source"
	empRepo "kantorku_backend/internals/features/employees/employees/repository"
	tagRepo "kantorku_backend/internals/features/employees/tags/repository"
	"kantorku_backend/internals/helpers/dbtime"
)

// Module: satu set service absensi yang dipakai bersama oleh HTTP, cron, dan MQTT.
type Module struct {
	Location *time.Location
	Clock    dbtime.Clock

	Store  *repository.AttendanceRepository
	Tags   *tagRepo.TagRepository
	Roster *empRepo.EmployeeRepository

	Toggle   *service.ToggleService
	Engine   *service.Engine // nil kalau sumber event tidak dikonfigurasi
	Summary  *service.SummaryService
	CloseDay *service.CloseDayService

	Controller *controller.AttendanceController
}

func NewModule(db *gorm.DB, src source.EventSource, cfg configs.AttendanceConfig) *Module {
	loc := dbtime.LoadLocation(cfg.Timezone)
	clock := dbtime.SystemClock{Loc: loc}

	m := &Module{
		Location: loc,
		Clock:    clock,
		Store:    repository.NewAttendanceRepository(db),
		Tags:     tagRepo.NewTagRepository(db),
		Roster:   empRepo.NewEmployeeRepository(db),
	}
	m.Toggle = service.NewToggleService(m.Store, m.Tags, m.Roster, clock)
	m.Summary = service.NewSummaryService(m.Store, m.Roster, clock, service.ParseCutoff(cfg.LateCutoff))
	m.CloseDay = service.NewCloseDayService(m.Store, clock)
	if src != nil {
		m.Engine = service.NewEngine(src, service.NewNormalizer(m.Store, m.Tags, clock), clock, cfg.ReconcileErrorLimit)
	}

	m.Controller = controller.NewAttendanceController(controller.Deps{
		Toggler: m.Toggle,
		Engine:  m.Engine,
		Summary: m.Summary,
		Closer:  m.CloseDay,
		Store:   m.Store,
		Clock:   clock,
	})
	return m
}

// NewEventSource: RECONCILE_SOURCE=redis (default) | http | none.
func NewEventSource(cfg configs.AttendanceConfig, rdb *redis.Client) (source.EventSource, error) {
	switch cfg.ReconcileSource {
	case "", "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis source: client belum diinisialisasi")
		}
		return source.NewRedisSource(rdb, cfg.ReconcileRedisKey), nil
	case "http":
		if cfg.ReconcileHTTPURL == "" {
			return nil, fmt.Errorf("http source: RECONCILE_HTTP_URL kosong")
		}
		return source.NewHTTPSource(cfg.ReconcileHTTPURL, cfg.ReconcileTimeout), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("RECONCILE_SOURCE tidak dikenal: %q", cfg.ReconcileSource)
	}
}

func (m *Module) NewScheduler(cfg configs.AttendanceConfig) (*scheduler.Scheduler, error) {
	return scheduler.New(scheduler.Config{
		ReconcileSchedule: cfg.ReconcileCron,
		ReconcileTimeout:  cfg.ReconcileTimeout,
		CloseDaySchedule:  cfg.CloseDayCron,
		Location:          m.Location,
	}, m.Engine, m.CloseDay)
}

// StartReaders: listener MQTT untuk tap reader. nil kalau MQTT_ENABLED=false.
func (m *Module) StartReaders(cfg configs.AttendanceConfig) *readers.Listener {
	if !cfg.MQTTEnabled {
		return nil
	}
	l := readers.NewListener(readers.Config{
		BrokerURL: cfg.MQTTBrokerURL,
		ClientID:  cfg.MQTTClientID,
		Username:  cfg.MQTTUsername,
		Password:  cfg.MQTTPassword,
		Topic:     cfg.MQTTTopic,
	}, m.Toggle)
	// subscribe dilakukan di OnConnect handler
	if err := l.Connect(5); err != nil {
		log.Printf("[MQTT] %v, tap via MQTT nonaktif (auto-reconnect tetap jalan)", err)
	}
	return l
}
