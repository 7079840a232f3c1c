package seeds

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
)

// SeedProducts seeds the default product catalog. Existing products are
// matched by name and left unchanged.
func SeedProducts(db *gorm.DB) (int, error) {
	products := []models.ProductModel{
		{Name: "Toned Milk 500ml", Unit: "packet", Price: decimal.NewFromInt(28), IsActive: true},
		{Name: "Toned Milk 1L", Unit: "packet", Price: decimal.NewFromInt(54), IsActive: true},
		{Name: "Full Cream Milk 1L", Unit: "packet", Price: decimal.NewFromInt(68), IsActive: true},
		{Name: "Buffalo Milk 1L", Unit: "litre", Price: decimal.NewFromInt(80), IsActive: true},
		{Name: "Curd 400g", Unit: "cup", Price: decimal.NewFromInt(35), IsActive: true},
	}

	created := 0
	for i := range products {
		ok, err := createIfMissing(db, &products[i], "name = ?", products[i].Name)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	return created, nil
}

// SeedHolidays stores the given non-delivery dates, skipping dates that
// already exist.
func SeedHolidays(db *gorm.DB, holidays map[time.Time]string) (int, error) {
	created := 0
	for date, name := range holidays {
		holiday := models.HolidayModel{Date: date, Name: name}
		ok, err := createIfMissing(db, &holiday, "date = ?", date)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	return created, nil
}

func createIfMissing[T any](db *gorm.DB, row *T, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.Model(row).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := db.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}
