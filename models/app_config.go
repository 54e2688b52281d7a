// models/app_config.go
package models

// AppConfigID is the fixed id of the singleton config document.
const AppConfigID = "singleton"

// AppConfig holds the master data lists. Renaming a value cascades to every
// asset referencing it in one batch together with this document.
type AppConfig struct {
	ID          string   `bson:"_id,omitempty" json:"id"`
	Categories  []string `bson:"categories" json:"categories"`
	Locations   []string `bson:"locations" json:"locations"`
	Departments []string `bson:"departments" json:"departments"`
}

// DefaultAppConfig seeds a fresh environment.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		ID:          AppConfigID,
		Categories:  []string{"Laptop", "Desktop", "Monitor", "Phone", "Printer", "Network", "Other"},
		Locations:   []string{"Head Office", "Warehouse", "Remote"},
		Departments: []string{"IT", "Finance", "Operations", "HR"},
	}
}
