package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	attendanceModel "kantorku_backend/internals/features/attendance/records/model"
	employeeModel "kantorku_backend/internals/features/employees/employees/model"
	tagModel "kantorku_backend/internals/features/employees/tags/model"
)

// index yang tidak bisa dideklarasikan lewat tag gorm (partial index)
var rawIndexes = []string{
	// satu sesi terbuka per karyawan per hari; kalah race → unique violation
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + attendanceModel.IdxOpenSession + `
	   ON attendance_records (attendance_employee_id, attendance_date)
	   WHERE attendance_time_out IS NULL AND attendance_status = 'present'`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_open_by_date
	   ON attendance_records (attendance_date)
	   WHERE attendance_time_out IS NULL`,
}

// Migrate: AutoMigrate tabel absensi + index tambahan. Idempotent.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		// gen_random_uuid() sudah bawaan di PG13+, extension boleh gagal (hak akses)
		log.Printf("[MIGRATE] pgcrypto: %v", err)
	}

	if err := db.AutoMigrate(
		&employeeModel.EmployeeModel{},
		&tagModel.EmployeeTagModel{},
		&attendanceModel.AttendanceRecordModel{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, stmt := range rawIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	log.Println("✅ Migrasi selesai.")
	return nil
}
