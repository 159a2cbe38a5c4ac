package services

import (
	"smmpanel-backend/internal/baratosocial"
	"smmpanel-backend/internal/database"
	"smmpanel-backend/internal/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrCatalogServiceNotFound = errors.New("service not found")

// SyncResult reports how many catalog rows a sync inserted vs refreshed.
type SyncResult struct {
	New     int `json:"new_services"`
	Updated int `json:"updated_services"`
}

// SyncServices pulls the full upstream service list and upserts it into the
// local catalog, keyed by the upstream service id. Existing rows keep their
// IsActive flag; new rows default to active. Idempotent per upstream payload.
func SyncServices(client *baratosocial.Client) (*SyncResult, error) {
	entries, err := client.Services()
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			var existing models.Service
			err := tx.Where("service_id = ?", int64(entry.Service)).First(&existing).Error
			if err == nil {
				existing.Name = entry.Name
				existing.Type = entry.Type
				existing.Rate = float64(entry.Rate)
				existing.Min = int(entry.Min)
				existing.Max = int(entry.Max)
				existing.Category = entry.Category
				existing.Description = entry.Description
				existing.UpdatedAt = time.Now()
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				result.Updated++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			service := models.Service{
				ServiceID:   int64(entry.Service),
				Name:        entry.Name,
				Type:        entry.Type,
				Rate:        float64(entry.Rate),
				Min:         int(entry.Min),
				Max:         int(entry.Max),
				Category:    entry.Category,
				Description: entry.Description,
				IsActive:    true,
			}
			if err := tx.Create(&service).Error; err != nil {
				return err
			}
			result.New++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListActiveServices returns every active catalog row.
func ListActiveServices() ([]models.Service, error) {
	var services []models.Service
	if err := database.DB.Where("is_active = ?", true).Order("category, name").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// SearchServices filters active services by a name/description substring and
// an optional category.
func SearchServices(query, category string) ([]models.Service, error) {
	q := database.DB.Where("is_active = ?", true)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var services []models.Service
	if err := q.Order("category, name").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// ListCategories returns the distinct non-empty categories of active services.
func ListCategories() ([]string, error) {
	var categories []string
	err := database.DB.Model(&models.Service{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetServiceByID fetches a catalog row by its local primary key.
func GetServiceByID(id uint) (*models.Service, error) {
	var service models.Service
	if err := database.DB.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

// GetActiveServiceByServiceID fetches an active catalog row by the upstream id.
func GetActiveServiceByServiceID(serviceID int64) (*models.Service, error) {
	var service models.Service
	err := database.DB.Where("service_id = ? AND is_active = ?", serviceID, true).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

// ToggleService flips the visibility flag of a catalog row.
func ToggleService(id uint) (*models.Service, error) {
	service, err := GetServiceByID(id)
	if err != nil {
		return nil, err
	}

	service.IsActive = !service.IsActive
	if err := database.DB.Save(service).Error; err != nil {
		return nil, err
	}
	return service, nil
}
