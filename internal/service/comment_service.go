package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/repository"
)

// CommentService guards comment writes with the same visibility rule as
// post reads: you can only comment on a post you can see.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type AddCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type EditCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
	Text      string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewFieldValidationError("text", "Comment text is required")
	}

	if _, err := s.visiblePost(ctx, in.PostID, in.UserID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:   in.Text,
		PostID: in.PostID,
		UserID: in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, currentUserID uint) ([]models.Comment, error) {
	if _, err := s.visiblePost(ctx, postID, currentUserID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) EditComment(ctx context.Context, in EditCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewFieldValidationError("text", "Comment text is required")
	}

	comment, err := s.ownedComment(ctx, in.UserID, in.PostID, in.CommentID, "edit")
	if err != nil {
		return nil, err
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, postID, commentID uint) error {
	comment, err := s.ownedComment(ctx, userID, postID, commentID, "delete")
	if err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, comment.ID)
}

func (s *CommentService) visiblePost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, currentUserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != currentUserID && !post.VisibleAt(time.Now()) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

func (s *CommentService) ownedComment(ctx context.Context, userID, postID, commentID uint, action string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if comment.UserID != userID {
		slog.WarnContext(ctx, "comment ownership denial",
			"action", action,
			"comment_id", commentID,
			"owner_id", comment.UserID,
			"user_id", userID,
		)
		return nil, models.NewForbiddenError("You can only " + action + " your own comments")
	}
	return comment, nil
}
