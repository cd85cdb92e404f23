package seeds

import (
	"log"

	"gorm.io/gorm"

	"kantorku_backend/internals/seeds/employees"
	"kantorku_backend/internals/seeds/tags"
)

// RunAllSeeds: data contoh untuk dev / staging. Urutan: employees → tags.
func RunAllSeeds(db *gorm.DB) {
	if err := employees.SeedEmployeesFromJSON(db, "internals/seeds/employees/data_employees.json"); err != nil {
		log.Printf("❌ Seed employees: %v", err)
		return
	}
	if err := tags.SeedTagsFromJSON(db, "internals/seeds/tags/data_tags.json"); err != nil {
		log.Printf("❌ Seed tags: %v", err)
	}
}
