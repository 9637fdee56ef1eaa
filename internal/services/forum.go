package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/data/repos"
	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

// ThreadView decorates a thread with its author's public identity so list
// pages render without a second lookup.
type ThreadView struct {
	*domain.ForumThread
	Author domain.PublicUser `json:"author"`
}

type PostView struct {
	*domain.ForumPost
	Author domain.PublicUser `json:"author"`
}

type ForumService interface {
	ListCategories(ctx context.Context) ([]*domain.ForumCategory, error)
	ListThreads(ctx context.Context, categorySlug string) ([]ThreadView, error)
	CreateThread(ctx context.Context, authorID uuid.UUID, categorySlug, title, body string) (*domain.ForumThread, error)
	ListPosts(ctx context.Context, threadID uuid.UUID) ([]PostView, error)
	CreatePost(ctx context.Context, authorID, threadID uuid.UUID, body string) (*domain.ForumPost, error)
	SeedCategories(ctx context.Context) error
}

type forumService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	forumRepo repos.ForumRepo
}

func NewForumService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, forumRepo repos.ForumRepo) ForumService {
	return &forumService{
		db:        db,
		log:       log.With("service", "ForumService"),
		userRepo:  userRepo,
		forumRepo: forumRepo,
	}
}

// defaultCategories mirrors the fixed set the product launched with. Slugs
// are stable identifiers; titles are display-only.
var defaultCategories = []struct {
	Slug  string
	Title string
}{
	{"general", "General Discussion"},
	{"trials", "Clinical Trials"},
	{"living-with", "Living With a Condition"},
	{"research", "Research & Publications"},
}

func (s *forumService) SeedCategories(ctx context.Context) error {
	for _, c := range defaultCategories {
		cat := &domain.ForumCategory{
			ID:    uuid.New(),
			Slug:  c.Slug,
			Title: c.Title,
		}
		if err := s.forumRepo.UpsertCategory(ctx, nil, cat); err != nil {
			return err
		}
	}
	return nil
}

func (s *forumService) ListCategories(ctx context.Context) ([]*domain.ForumCategory, error) {
	cats, err := s.forumRepo.ListCategories(ctx, nil)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return cats, nil
}

func (s *forumService) categoryBySlug(ctx context.Context, slug string) (*domain.ForumCategory, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apierr.Invalid("category required")
	}
	cat, err := s.forumRepo.GetCategoryBySlug(ctx, nil, slug)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if cat == nil {
		return nil, apierr.NotFound("category not found")
	}
	return cat, nil
}

func (s *forumService) ListThreads(ctx context.Context, categorySlug string) ([]ThreadView, error) {
	cat, err := s.categoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	threads, err := s.forumRepo.ListThreadsByCategory(ctx, nil, cat.ID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	authorIDs := make([]uuid.UUID, 0, len(threads))
	for _, t := range threads {
		authorIDs = append(authorIDs, t.AuthorID)
	}
	byID, err := s.publicUsers(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	out := make([]ThreadView, 0, len(threads))
	for _, t := range threads {
		out = append(out, ThreadView{ForumThread: t, Author: byID[t.AuthorID]})
	}
	return out, nil
}

func (s *forumService) CreateThread(ctx context.Context, authorID uuid.UUID, categorySlug, title, body string) (*domain.ForumThread, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return nil, apierr.Invalid("title required")
	}
	if body == "" {
		return nil, apierr.Invalid("body required")
	}
	cat, err := s.categoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	thread := &domain.ForumThread{
		ID:         uuid.New(),
		CategoryID: cat.ID,
		AuthorID:   authorID,
		Title:      title,
		Body:       body,
	}
	if err := s.forumRepo.CreateThread(ctx, nil, thread); err != nil {
		return nil, apierr.Storage(err)
	}
	return thread, nil
}

func (s *forumService) ListPosts(ctx context.Context, threadID uuid.UUID) ([]PostView, error) {
	thread, err := s.forumRepo.GetThreadByID(ctx, nil, threadID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if thread == nil {
		return nil, apierr.NotFound("thread not found")
	}
	posts, err := s.forumRepo.ListPostsByThread(ctx, nil, threadID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	authorIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
	}
	byID, err := s.publicUsers(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostView{ForumPost: p, Author: byID[p.AuthorID]})
	}
	return out, nil
}

func (s *forumService) CreatePost(ctx context.Context, authorID, threadID uuid.UUID, body string) (*domain.ForumPost, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apierr.Invalid("body required")
	}
	thread, err := s.forumRepo.GetThreadByID(ctx, nil, threadID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if thread == nil {
		return nil, apierr.NotFound("thread not found")
	}
	post := &domain.ForumPost{
		ID:       uuid.New(),
		ThreadID: threadID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.forumRepo.CreatePost(ctx, nil, post); err != nil {
		return nil, apierr.Storage(err)
	}
	return post, nil
}

func (s *forumService) publicUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.PublicUser, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.PublicUser{}, nil
	}
	users, err := s.userRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	byID := make(map[uuid.UUID]domain.PublicUser, len(users))
	for _, u := range users {
		byID[u.ID] = u.Public()
	}
	return byID, nil
}
