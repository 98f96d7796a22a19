package models

import "time"

// ClientSite is the customer project that receives delivered materials.
type ClientSite struct {
	ID          string    `gorm:"column:id;type:text;primaryKey"`
	ProjectName string    `gorm:"column:project_name;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
