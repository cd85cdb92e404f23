package tags

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kantorku_backend/internals/features/employees/tags/model"
)

type TagSeed struct {
	UID        string  `json:"uid"`
	EmployeeID *int64  `json:"employee_id"`
	Status     string  `json:"status"`
	Label      *string `json:"label"`
}

func ParseTagSeeds(data []byte) ([]model.EmployeeTagModel, error) {
	var seeds []TagSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("decode tags seed: %w", err)
	}
	out := make([]model.EmployeeTagModel, 0, len(seeds))
	seen := map[string]bool{}
	for i, s := range seeds {
		uid := model.NormalizeUID(s.UID)
		if uid == "" {
			return nil, fmt.Errorf("tags seed #%d: uid wajib", i)
		}
		if seen[uid] {
			return nil, fmt.Errorf("tags seed #%d: uid %s duplikat", i, uid)
		}
		seen[uid] = true

		status := strings.ToLower(strings.TrimSpace(s.Status))
		switch status {
		case "":
			status = model.TagStatusActive
		case model.TagStatusActive, model.TagStatusInactive:
		default:
			return nil, fmt.Errorf("tags seed #%d: status %q tidak dikenal", i, s.Status)
		}
		out = append(out, model.EmployeeTagModel{
			EmployeeTagUID:        uid,
			EmployeeTagEmployeeID: s.EmployeeID,
			EmployeeTagStatus:     status,
			EmployeeTagLabel:      s.Label,
		})
	}
	return out, nil
}

// SeedTagsFromJSON: UID yang sudah terdaftar dilewati.
func SeedTagsFromJSON(db *gorm.DB, filePath string) error {
	log.Println("📥 Membaca file:", filePath)
	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("baca %s: %w", filePath, err)
	}
	rows, err := ParseTagSeeds(file)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_tag_uid"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return fmt.Errorf("insert tags: %w", res.Error)
	}
	log.Printf("✅ Seed tags: %d baru dari %d", res.RowsAffected, len(rows))
	return nil
}
