package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

const (
	defaultPage          = 1
	defaultPageSize      = 10
	maxPageSize          = 100
	defaultFeaturedLimit = 5
	recentPostsLimit     = 3
	defaultAuthor        = "Admin"

	maxCommentName    = 50
	maxCommentContent = 1000
	maxPostTitle      = 200
)

type blogService struct {
	postRepo    ports.BlogRepository
	commentRepo ports.CommentRepository
	notifier    ports.Notifier
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewBlogService(postRepo ports.BlogRepository, commentRepo ports.CommentRepository, notifier ports.Notifier, log logrus.FieldLogger) ports.BlogService {
	return &blogService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		notifier:    notifier,
		log:         log,
		now:         time.Now,
	}
}

func (s *blogService) ListPosts(ctx context.Context, input ports.ListPostsInput) (*domain.PostPage, error) {
	page := input.Page
	if page < 1 {
		page = defaultPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	category := strings.TrimSpace(input.Category)
	if category == "all" {
		category = ""
	}

	posts, err := s.postRepo.ListPublished(ctx, category, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.postRepo.CountPublished(ctx, category)
	if err != nil {
		return nil, err
	}

	return &domain.PostPage{
		Posts:      posts,
		Pagination: domain.NewPagination(page, limit, total),
	}, nil
}

func (s *blogService) Featured(ctx context.Context, limit int) (*ports.FeaturedPosts, error) {
	if limit < 1 {
		limit = defaultFeaturedLimit
	}

	featured, err := s.postRepo.Featured(ctx, limit)
	if err != nil {
		return nil, err
	}
	recent, err := s.postRepo.Recent(ctx, recentPostsLimit)
	if err != nil {
		return nil, err
	}

	return &ports.FeaturedPosts{Featured: featured, Recent: recent}, nil
}

// GetPost returns a published post with its approved comments. The view
// counter is bumped in the background so a slow write never delays the read.
func (s *blogService) GetPost(ctx context.Context, slug string) (*ports.PostWithComments, error) {
	post, err := s.postRepo.GetPublishedBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListApproved(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	go s.recordView(context.WithoutCancel(ctx), post.ID)

	return &ports.PostWithComments{Post: *post, Comments: comments}, nil
}

func (s *blogService) recordView(ctx context.Context, postID uuid.UUID) {
	ctx, cancel := context.WithTimeout(ctx, broadcastTimeout)
	defer cancel()

	views, err := s.postRepo.IncrementViews(ctx, postID)
	if err != nil {
		s.log.WithError(err).WithField("post_id", postID).Warn("failed to increment view count")
		return
	}
	publish(ctx, s.notifier, s.log, domain.RoomBlog, domain.EventPostView, domain.PostView{
		PostID:       postID,
		NewViewCount: views,
	})
}

func (s *blogService) Share(ctx context.Context, slug, platform string) (int64, error) {
	post, err := s.postRepo.GetPublishedBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		return 0, err
	}

	shares, err := s.postRepo.IncrementShares(ctx, post.ID)
	if err != nil {
		return 0, err
	}

	publish(ctx, s.notifier, s.log, domain.RoomBlog, domain.EventPostShare, domain.PostShare{
		PostID:        post.ID,
		Platform:      platform,
		NewShareCount: shares,
	})
	return shares, nil
}

// Comment stores a reader comment in the moderation queue.
func (s *blogService) Comment(ctx context.Context, input ports.CommentInput) (*domain.Comment, error) {
	post, err := s.postRepo.GetPublishedBySlug(ctx, normalizeSlug(input.Slug))
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	content := strings.TrimSpace(input.Content)
	if name == "" || email == "" || content == "" {
		return nil, domain.Invalid("Name, email, and content are required")
	}
	if len([]rune(name)) > maxCommentName {
		return nil, domain.Invalid("Name must be at most 50 characters")
	}
	if len([]rune(content)) > maxCommentContent {
		return nil, domain.Invalid("Comment must be at most 1000 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Invalid("Email is invalid")
	}

	now := s.now()
	comment := &domain.Comment{
		ID:         uuid.New(),
		BlogPostID: post.ID,
		Name:       name,
		Email:      email,
		Content:    content,
		IPAddress:  input.IPAddress,
		UserAgent:  input.UserAgent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if raw := strings.TrimSpace(input.ParentCommentID); raw != "" {
		parentID, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.Invalid("Parent comment ID is invalid")
		}
		parent, err := s.commentRepo.GetByID(ctx, parentID)
		if errors.Is(err, domain.ErrCommentNotFound) || (err == nil && parent.BlogPostID != post.ID) {
			return nil, domain.Invalid("Parent comment does not belong to this post")
		}
		if err != nil {
			return nil, err
		}
		comment.ParentCommentID = &parentID
		comment.IsReply = true
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	publish(ctx, s.notifier, s.log, domain.RoomBlog, domain.EventNewComment, domain.NewComment{
		PostID:  post.ID,
		Comment: *comment,
	})
	return comment, nil
}

func (s *blogService) ListAll(ctx context.Context) ([]domain.BlogPost, error) {
	return s.postRepo.ListAll(ctx)
}

func (s *blogService) Create(ctx context.Context, input ports.PostInput) (*domain.BlogPost, error) {
	post := &domain.BlogPost{
		ID:          uuid.New(),
		Author:      defaultAuthor,
		IsPublished: true,
	}
	if err := s.apply(post, input); err != nil {
		return nil, err
	}
	if post.Title == "" || post.Content == "" || post.Category == "" || post.FeaturedImage == "" {
		return nil, domain.Invalid("All required fields must be provided")
	}
	if post.Slug == "" {
		return nil, domain.Invalid("Slug could not be derived from title")
	}
	if err := s.ensureSlugFree(ctx, post.Slug, post.ID); err != nil {
		return nil, err
	}

	now := s.now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.IsPublished {
		post.PublishedAt = &now
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *blogService) Update(ctx context.Context, id string, input ports.PostInput) (*domain.BlogPost, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.Invalid("Post ID is invalid")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	wasPublished := post.IsPublished

	if err := s.apply(post, input); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, post.Slug, post.ID); err != nil {
		return nil, err
	}

	now := s.now()
	post.UpdatedAt = now
	if post.IsPublished && (!wasPublished || post.PublishedAt == nil) {
		post.PublishedAt = &now
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *blogService) Delete(ctx context.Context, id string) error {
	postID, err := uuid.Parse(id)
	if err != nil {
		return domain.Invalid("Post ID is invalid")
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *blogService) ModerateComment(ctx context.Context, id string, approved, spam bool) error {
	commentID, err := uuid.Parse(id)
	if err != nil {
		return domain.Invalid("Comment ID is invalid")
	}
	return s.commentRepo.SetModeration(ctx, commentID, approved, spam)
}

// apply copies the non-empty fields of input onto post and fills derived ones.
func (s *blogService) apply(post *domain.BlogPost, input ports.PostInput) error {
	if v := strings.TrimSpace(input.Title); v != "" {
		if len([]rune(v)) > maxPostTitle {
			return domain.Invalid("Title must be at most 200 characters")
		}
		post.Title = v
	}
	if v := strings.TrimSpace(input.Content); v != "" {
		post.Content = v
	}
	if v := strings.TrimSpace(input.Category); v != "" {
		category := domain.Category(strings.ToLower(v))
		if !category.Valid() {
			return domain.Invalid("Category is invalid")
		}
		post.Category = category
	}
	if v := strings.TrimSpace(input.FeaturedImage); v != "" {
		post.FeaturedImage = v
	}
	if v := strings.TrimSpace(input.Author); v != "" {
		post.Author = v
	}
	if v := strings.TrimSpace(input.MetaDescription); v != "" {
		post.MetaDescription = v
	}
	if input.Tags != nil {
		post.Tags = input.Tags
	}
	if input.MetaKeywords != nil {
		post.MetaKeywords = input.MetaKeywords
	}
	if input.IsPublished != nil {
		post.IsPublished = *input.IsPublished
	}
	if input.IsFeatured != nil {
		post.IsFeatured = *input.IsFeatured
	}

	if v := normalizeSlug(input.Slug); v != "" {
		post.Slug = v
	} else if post.Slug == "" {
		post.Slug = domain.Slugify(post.Title)
	}

	if v := strings.TrimSpace(input.Excerpt); v != "" {
		post.Excerpt = v
	} else if post.Excerpt == "" && post.Content != "" {
		post.Excerpt = domain.ExcerptFrom(post.Content)
	}
	return nil
}

func (s *blogService) ensureSlugFree(ctx context.Context, slug string, except uuid.UUID) error {
	taken, err := s.postRepo.SlugTaken(ctx, slug, except)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrSlugTaken
	}
	return nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
