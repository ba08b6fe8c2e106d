package models

import (
	"time"

	"gorm.io/gorm"
)

// Group is a named category a post can be filed under.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Slug        string    `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupBySlug resolves a group by its unique slug.
func GroupBySlug(db *gorm.DB, slug string) (*Group, error) {
	var group Group
	if err := db.Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// AllGroups lists every group, oldest first, for the post form selector.
func AllGroups(db *gorm.DB) ([]Group, error) {
	var groups []Group
	if err := db.Order("id ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
