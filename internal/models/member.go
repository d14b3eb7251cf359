package models

import (
	"time"
)

// TeamMember is a person tasks can be assigned to.
// Tasks reference members by Name, not ID.
type TeamMember struct {
	ID        uint      `gorm:"primarykey" json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Name      string    `gorm:"unique;not null" json:"name" yaml:"name"`
}

// Category groups tasks by context (a project, a client, home...).
// Tasks reference categories by Name, not ID.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Name      string    `gorm:"unique;not null" json:"name" yaml:"name"`
}

// TableName keeps the table name stable across gorm's pluralizer
func (Category) TableName() string {
	return "categories"
}
