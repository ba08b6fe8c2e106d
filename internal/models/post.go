package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	GroupID   *uint     `gorm:"index" json:"group_id"` // Nullable, ungrouped posts are fine
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Image     string    `json:"image"` // URL path under /media, empty when absent
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostFilter narrows a post listing. Zero fields are ignored; FollowerID
// restricts to posts authored by anyone that user follows.
type PostFilter struct {
	AuthorID   uint
	GroupID    uint
	FollowerID uint
}

func (f PostFilter) apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&Post{})
	if f.AuthorID != 0 {
		q = q.Where("user_id = ?", f.AuthorID)
	}
	if f.GroupID != 0 {
		q = q.Where("group_id = ?", f.GroupID)
	}
	if f.FollowerID != 0 {
		q = q.Where("user_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&Follow{}).
				Select("author_id").
				Where("follower_id = ?", f.FollowerID))
	}
	return q
}

// CountPosts returns the number of posts matching the filter.
func CountPosts(db *gorm.DB, filter PostFilter) (int64, error) {
	var total int64
	if err := filter.apply(db).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListPosts returns the matching posts newest-first, with author and group
// preloaded for rendering.
func ListPosts(db *gorm.DB, filter PostFilter, offset, limit int) ([]Post, error) {
	var posts []Post
	err := filter.apply(db).
		Preload("User").Preload("Group").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// PostByAuthorAndID resolves a post scoped to its author. A valid post id
// paired with the wrong username is a not-found, not a different post.
func PostByAuthorAndID(db *gorm.DB, authorID, postID uint) (*Post, error) {
	var post Post
	err := db.Preload("User").Preload("Group").
		Where("id = ? AND user_id = ?", postID, authorID).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}
