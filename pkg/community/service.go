package community

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/we4us/platform/pkg/common/kafka"
	"github.com/we4us/platform/pkg/common/logger"
	"github.com/we4us/platform/pkg/common/models"
	"github.com/we4us/platform/pkg/moderation"
	"github.com/we4us/platform/pkg/observability/metrics"
)

var (
	ErrEmptyContent   = errors.New("content is required")
	ErrContentTooLong = errors.New("content is too long")
	ErrSelfMessage    = errors.New("cannot message yourself")
	ErrNotPostOwner   = errors.New("only the author can delete a post")
)

const (
	maxPostLength    = 5000
	maxCommentLength = 2000
	maxMessageLength = 2000
)

// AuthorResolver maps user ids to display information for attribution.
type AuthorResolver interface {
	AuthorSummaries(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.AuthorSummary, error)
}

type Service struct {
	repo     *Repository
	authors  AuthorResolver
	scrubber *moderation.Scrubber
	producer *kafka.Producer
}

func NewService(repo *Repository, authors AuthorResolver, scrubber *moderation.Scrubber, producer *kafka.Producer) *Service {
	return &Service{repo: repo, authors: authors, scrubber: scrubber, producer: producer}
}

func (s *Service) Feed(ctx context.Context, viewerID uuid.UUID, page, limit int) (models.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	posts, total, err := s.repo.ListPosts(ctx, page, limit)
	if err != nil {
		return models.FeedPage{}, err
	}

	postIDs := make([]uuid.UUID, len(posts))
	authorIDs := make([]uuid.UUID, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
		authorIDs[i] = post.UserID
	}

	liked, err := s.repo.LikedPostIDs(ctx, viewerID, postIDs)
	if err != nil {
		return models.FeedPage{}, err
	}
	authorMap, err := s.authors.AuthorSummaries(ctx, authorIDs)
	if err != nil {
		return models.FeedPage{}, err
	}

	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, models.PostView{
			ID:            post.ID,
			Content:       post.Content,
			LikesCount:    post.LikesCount,
			CommentsCount: post.CommentsCount,
			CreatedAt:     post.CreatedAt,
			Author:        authorMap[post.UserID],
			IsLiked:       liked[post.ID],
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return models.FeedPage{
		Posts:      views,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) CreatePost(ctx context.Context, userID uuid.UUID, req models.CreatePostRequest) (*models.PostView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > maxPostLength {
		return nil, ErrContentTooLong
	}

	content, findings := s.scrubber.Scrub(content)
	if len(findings) > 0 {
		logger.Log.WithFields(map[string]interface{}{
			"user_id":  userID,
			"findings": findings,
		}).Info("masked personal identifiers in post")
	}

	post := &Post{UserID: userID, Content: content}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	metrics.IncPostsCreated()
	s.publishActivity(ctx, "post_created", map[string]interface{}{
		"post_id": post.ID.String(),
		"user_id": userID.String(),
	})

	authorMap, err := s.authors.AuthorSummaries(ctx, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	view := models.PostView{
		ID:        post.ID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		Author:    authorMap[userID],
	}
	return &view, nil
}

func (s *Service) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*models.PostView, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.repo.LikedPostIDs(ctx, viewerID, []uuid.UUID{post.ID})
	if err != nil {
		return nil, err
	}
	authorMap, err := s.authors.AuthorSummaries(ctx, []uuid.UUID{post.UserID})
	if err != nil {
		return nil, err
	}

	view := models.PostView{
		ID:            post.ID,
		Content:       post.Content,
		LikesCount:    post.LikesCount,
		CommentsCount: post.CommentsCount,
		CreatedAt:     post.CreatedAt,
		Author:        authorMap[post.UserID],
		IsLiked:       liked[post.ID],
	}
	return &view, nil
}

// DeletePost removes the caller's own post only.
func (s *Service) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrNotPostOwner
	}
	return s.repo.DeletePost(ctx, postID)
}

func (s *Service) UnreadTotal(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (models.LikeResult, error) {
	liked, count, err := s.repo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return models.LikeResult{}, err
	}
	return models.LikeResult{Liked: liked, LikesCount: count}, nil
}

func (s *Service) Comments(ctx context.Context, postID uuid.UUID) ([]models.CommentView, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uuid.UUID, len(comments))
	for i, comment := range comments {
		authorIDs[i] = comment.UserID
	}
	authorMap, err := s.authors.AuthorSummaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, models.CommentView{
			ID:        comment.ID,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
			Author:    authorMap[comment.UserID],
		})
	}
	return views, nil
}

func (s *Service) AddComment(ctx context.Context, userID, postID uuid.UUID, req models.CreateCommentRequest) (*models.CommentView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > maxCommentLength {
		return nil, ErrContentTooLong
	}
	content, _ = s.scrubber.Scrub(content)

	comment := &Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	authorMap, err := s.authors.AuthorSummaries(ctx, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	view := models.CommentView{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Author:    authorMap[userID],
	}
	return &view, nil
}

// Conversations groups the user's direct messages by the other participant,
// newest conversation first, with unread counts for messages sent to the user.
func (s *Service) Conversations(ctx context.Context, userID uuid.UUID) ([]models.ConversationView, error) {
	messages, err := s.repo.ListMessagesInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	type convo struct {
		last   Message
		unread int64
	}
	byOther := make(map[uuid.UUID]*convo)
	for _, msg := range messages {
		otherID := msg.SenderID
		if otherID == userID {
			otherID = msg.RecipientID
		}
		c, ok := byOther[otherID]
		if !ok {
			c = &convo{last: msg}
			byOther[otherID] = c
		}
		if msg.RecipientID == userID && !msg.IsRead {
			c.unread++
		}
	}

	otherIDs := make([]uuid.UUID, 0, len(byOther))
	for id := range byOther {
		otherIDs = append(otherIDs, id)
	}
	authorMap, err := s.authors.AuthorSummaries(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.ConversationView, 0, len(byOther))
	for otherID, c := range byOther {
		views = append(views, models.ConversationView{
			OtherUserID:   otherID,
			OtherUserName: authorMap[otherID].DisplayName,
			LastMessage:   c.last.Content,
			LastMessageAt: c.last.CreatedAt,
			UnreadCount:   c.unread,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].LastMessageAt.After(views[j].LastMessageAt)
	})
	return views, nil
}

// Messages returns the thread with another user and marks their messages to
// the viewer as read.
func (s *Service) Messages(ctx context.Context, userID, otherID uuid.UUID) ([]models.MessageView, error) {
	messages, err := s.repo.ListMessagesBetween(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, userID, otherID); err != nil {
		logger.Log.WithError(err).Warn("failed to mark messages read")
	}

	views := make([]models.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, models.MessageView{
			ID:        msg.ID,
			Content:   msg.Content,
			SenderID:  msg.SenderID,
			CreatedAt: msg.CreatedAt,
			IsOwn:     msg.SenderID == userID,
		})
	}
	return views, nil
}

func (s *Service) SendMessage(ctx context.Context, senderID, recipientID uuid.UUID, req models.SendMessageRequest) (*models.MessageView, error) {
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > maxMessageLength {
		return nil, ErrContentTooLong
	}
	content, _ = s.scrubber.Scrub(content)

	message := &Message{SenderID: senderID, RecipientID: recipientID, Content: content}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	metrics.IncMessagesSent()
	s.publishActivity(ctx, "message_sent", map[string]interface{}{
		"message_id":   message.ID.String(),
		"sender_id":    senderID.String(),
		"recipient_id": recipientID.String(),
	})

	view := models.MessageView{
		ID:        message.ID,
		Content:   message.Content,
		SenderID:  message.SenderID,
		CreatedAt: message.CreatedAt,
		IsOwn:     true,
	}
	return &view, nil
}

// Forums is a static catalog. Post counts are global for now since posts are
// not yet partitioned per forum.
func (s *Service) Forums(ctx context.Context) ([]models.Forum, error) {
	total, err := s.repo.CountPosts(ctx)
	if err != nil {
		return nil, err
	}

	return []models.Forum{
		{ID: "general", Name: "General Support", Slug: "general-support", PostCount: int(total)},
		{ID: "treatment", Name: "Treatment Experiences", Slug: "treatment-experiences"},
		{ID: "caregivers", Name: "Caregivers Corner", Slug: "caregivers-corner"},
		{ID: "survivorship", Name: "Life After Treatment", Slug: "life-after-treatment"},
	}, nil
}

func (s *Service) publishActivity(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEvent(ctx, eventType, "community-service", payload); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("failed to publish activity event")
	}
}
