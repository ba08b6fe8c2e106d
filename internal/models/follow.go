package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow is a directed edge: FollowerID wants AuthorID's posts in their feed.
// The composite unique index keeps racing follow requests from inserting a
// duplicate edge.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follower_author" json:"follower_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"follower"`
	AuthorID   uint      `gorm:"not null;index;uniqueIndex:idx_follower_author" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsFollowing reports whether a follow edge exists.
func IsFollowing(db *gorm.DB, followerID, authorID uint) bool {
	var follow Follow
	err := db.Where("follower_id = ? AND author_id = ?", followerID, authorID).
		First(&follow).Error
	return err == nil
}

// FollowerCount counts users following the given author.
func FollowerCount(db *gorm.DB, authorID uint) int64 {
	var count int64
	db.Model(&Follow{}).Where("author_id = ?", authorID).Count(&count)
	return count
}

// FollowingCount counts authors the given user follows.
func FollowingCount(db *gorm.DB, userID uint) int64 {
	var count int64
	db.Model(&Follow{}).Where("follower_id = ?", userID).Count(&count)
	return count
}
