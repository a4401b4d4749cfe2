package community

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Post{}, &Comment{}, &Like{}, &Message{})
}

func (r *Repository) ListPosts(ctx context.Context, page, limit int) ([]Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&Post{}).Where("is_removed = ?", false).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []Post
	result := r.db.WithContext(ctx).
		Where("is_removed = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts)
	return posts, total, result.Error
}

func (r *Repository) GetPost(ctx context.Context, postID uuid.UUID) (*Post, error) {
	var post Post
	result := r.db.WithContext(ctx).Where("id = ? AND is_removed = ?", postID, false).First(&post)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &post, nil
}

func (r *Repository) CreatePost(ctx context.Context, post *Post) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	return r.db.WithContext(ctx).Create(post).Error
}

// DeletePost soft-removes a post so existing comment and like rows keep a
// valid parent.
func (r *Repository) DeletePost(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Post{}).
		Where("id = ?", postID).
		Update("is_removed", true).Error
}

func (r *Repository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Message{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// LikedPostIDs returns which of the given posts the user has liked, for
// decorating a feed page in one query.
func (r *Repository) LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	var likes []Like
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&likes)
	if result.Error != nil {
		return nil, result.Error
	}
	for _, like := range likes {
		liked[like.PostID] = true
	}
	return liked, nil
}

// ToggleLike flips the user's like on a post inside one transaction so the
// denormalized counter cannot drift from the like rows.
func (r *Repository) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (bool, int, error) {
	var liked bool
	var count int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post Post
		if err := tx.Where("id = ? AND is_removed = ?", postID, false).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		var existing Like
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&post).Update("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)")).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := Like{ID: uuid.New(), PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			if err := tx.Model(&post).Update("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}

		var refreshed Post
		if err := tx.Where("id = ?", postID).First(&refreshed).Error; err != nil {
			return err
		}
		count = refreshed.LikesCount
		return nil
	})
	return liked, count, err
}

func (r *Repository) ListComments(ctx context.Context, postID uuid.UUID) ([]Comment, error) {
	var comments []Comment
	result := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments)
	return comments, result.Error
}

func (r *Repository) CreateComment(ctx context.Context, comment *Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.CreatedAt = time.Now().UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post Post
		if err := tx.Where("id = ? AND is_removed = ?", comment.PostID, false).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&post).Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})
}

// ListMessagesWith returns all messages involving the user, newest first.
// Conversation grouping happens in the service.
func (r *Repository) ListMessagesInvolving(ctx context.Context, userID uuid.UUID) ([]Message, error) {
	var messages []Message
	result := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages)
	return messages, result.Error
}

func (r *Repository) ListMessagesBetween(ctx context.Context, userID, otherID uuid.UUID) ([]Message, error) {
	var messages []Message
	result := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&messages)
	return messages, result.Error
}

func (r *Repository) MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Message{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = ?", recipientID, senderID, false).
		Update("is_read", true).Error
}

func (r *Repository) CreateMessage(ctx context.Context, message *Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	message.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *Repository) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Post{}).Where("is_removed = ?", false).Count(&count).Error
	return count, err
}

func (r *Repository) CountPostsByUsers(ctx context.Context, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&Post{}).
		Where("user_id IN ? AND is_removed = ?", userIDs, false).
		Count(&count).Error
	return count, err
}
