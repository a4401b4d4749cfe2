package community

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	Content       string    `gorm:"type:text" json:"content"`
	LikesCount    int       `gorm:"default:0" json:"likesCount"`
	CommentsCount int       `gorm:"default:0" json:"commentsCount"`
	IsRemoved     bool      `gorm:"default:false" json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"-"`
}

func (Post) TableName() string {
	return "community_posts"
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;index" json:"postId"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Comment) TableName() string {
	return "community_comments"
}

// Like rows are unique per user and post; toggling off deletes the row.
type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;index:idx_like_post_user,unique" json:"postId"`
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_like_post_user,unique" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "community_likes"
}

type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    uuid.UUID `gorm:"type:uuid;index" json:"senderId"`
	RecipientID uuid.UUID `gorm:"type:uuid;index" json:"recipientId"`
	Content     string    `gorm:"type:text" json:"content"`
	IsRead      bool      `gorm:"default:false" json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Message) TableName() string {
	return "direct_messages"
}
