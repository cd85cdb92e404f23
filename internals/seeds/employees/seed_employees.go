package employees

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kantorku_backend/internals/features/employees/employees/model"
)

type EmployeeSeed struct {
	EmployeeID int64   `json:"employee_id"`
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
}

func ParseEmployeeSeeds(data []byte) ([]model.EmployeeModel, error) {
	var seeds []EmployeeSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("decode employees seed: %w", err)
	}
	out := make([]model.EmployeeModel, 0, len(seeds))
	for i, s := range seeds {
		name := strings.TrimSpace(s.Name)
		if s.EmployeeID <= 0 || name == "" {
			return nil, fmt.Errorf("employees seed #%d: employee_id & name wajib", i)
		}
		active := true
		if s.IsActive != nil {
			active = *s.IsActive
		}
		out = append(out, model.EmployeeModel{
			EmployeeID:         s.EmployeeID,
			EmployeeName:       name,
			EmployeeEmail:      s.Email,
			EmployeeDepartment: s.Department,
			EmployeeIsActive:   active,
		})
	}
	return out, nil
}

// SeedEmployeesFromJSON: insert roster contoh, id yang sudah ada dilewati.
func SeedEmployeesFromJSON(db *gorm.DB, filePath string) error {
	log.Println("📥 Membaca file:", filePath)
	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("baca %s: %w", filePath, err)
	}
	rows, err := ParseEmployeeSeeds(file)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		log.Println("ℹ️ Tidak ada karyawan untuk diinsert.")
		return nil
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if res.Error != nil {
		return fmt.Errorf("insert employees: %w", res.Error)
	}
	// kolom default:true → false di-skip GORM saat Create, set manual
	var inactive []int64
	for _, r := range rows {
		if !r.EmployeeIsActive {
			inactive = append(inactive, r.EmployeeID)
		}
	}
	if len(inactive) > 0 {
		if err := db.Model(&model.EmployeeModel{}).
			Where("employee_id IN ?", inactive).
			Update("employee_is_active", false).Error; err != nil {
			return fmt.Errorf("set inactive employees: %w", err)
		}
	}

	// serial employee_id harus lanjut dari id seed terbesar
	db.Exec(`SELECT setval(pg_get_serial_sequence('employees','employee_id'), (SELECT COALESCE(MAX(employee_id),1) FROM employees))`)
	log.Printf("✅ Seed employees: %d baru dari %d", res.RowsAffected, len(rows))
	return nil
}
