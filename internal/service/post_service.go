package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maksv/social-network-api/internal/domain"
	"github.com/maksv/social-network-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("only the post owner can perform this action")
)

// CommentView is a comment with its author reference resolved.
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	PostedBy  UserRef   `json:"postedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostView is the denormalized post representation returned to clients.
type PostView struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	PostedBy  UserRef       `json:"postedBy"`
	Likes     []uuid.UUID   `json:"likes"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type CreatePostInput struct {
	Title            string
	Body             string
	Photo            []byte
	PhotoContentType string
}

type UpdatePostInput struct {
	Title            *string
	Body             *string
	Photo            []byte
	PhotoContentType string
}

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*PostView, error) {
	post := &domain.Post{
		ID:               uuid.New(),
		Title:            input.Title,
		Body:             input.Body,
		PostedBy:         authorID,
		Photo:            input.Photo,
		PhotoContentType: input.PhotoContentType,
		Likes:            []uuid.UUID{},
		Comments:         []domain.Comment{},
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.buildView(ctx, post)
}

func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (*PostView, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, post)
}

func (s *PostService) ListPosts(ctx context.Context, page, pageSize int) ([]*PostView, int64, error) {
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	posts, err := s.postRepo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*PostView, 0, len(posts))
	for _, p := range posts {
		view, err := s.buildView(ctx, p)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

// UpdatePost applies partial changes. The owner reference is immutable;
// only the owner may update the post.
func (s *PostService) UpdatePost(ctx context.Context, actorID, id uuid.UUID, input UpdatePostInput) (*PostView, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.PostedBy != actorID {
		return nil, ErrNotPostOwner
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Body != nil {
		post.Body = *input.Body
	}
	if input.Photo != nil {
		post.Photo = input.Photo
		post.PhotoContentType = input.PhotoContentType
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.buildView(ctx, post)
}

func (s *PostService) DeletePost(ctx context.Context, actorID, id uuid.UUID) error {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return err
	}
	if post.PostedBy != actorID {
		return ErrNotPostOwner
	}
	return s.postRepo.Delete(ctx, id)
}

// GetPhoto returns the stored photo blob and its content type.
func (s *PostService) GetPhoto(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return post.Photo, post.PhotoContentType, nil
}

// Like appends userID to the post's likes. Repeat likes are not
// deduplicated; Unlike removes every occurrence.
func (s *PostService) Like(ctx context.Context, postID, userID uuid.UUID) (*PostView, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.Likes = append(post.Likes, userID)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.buildView(ctx, post)
}

// Unlike removes every occurrence of userID from the post's likes.
func (s *PostService) Unlike(ctx context.Context, postID, userID uuid.UUID) (*PostView, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.Likes = removeAll(post.Likes, userID)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.buildView(ctx, post)
}

// Comment appends a new entry with a server-assigned timestamp; comments
// keep insertion order.
func (s *PostService) Comment(ctx context.Context, postID, userID uuid.UUID, text string) (*PostView, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.Comments = append(post.Comments, domain.Comment{
		ID:        uuid.New(),
		Text:      text,
		PostedBy:  userID,
		CreatedAt: time.Now(),
	})
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.buildView(ctx, post)
}

// Uncomment removes the comment with the given id, a no-op when no
// comment matches.
func (s *PostService) Uncomment(ctx context.Context, postID, commentID uuid.UUID) (*PostView, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	kept := post.Comments[:0]
	for _, c := range post.Comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	post.Comments = kept

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.buildView(ctx, post)
}

func (s *PostService) getPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// buildView resolves the author and comment author references after the
// primary write.
func (s *PostService) buildView(ctx context.Context, post *domain.Post) (*PostView, error) {
	ids := make([]uuid.UUID, 0, len(post.Comments)+1)
	ids = append(ids, post.PostedBy)
	for _, c := range post.Comments {
		ids = append(ids, c.PostedBy)
	}

	refs := make(map[uuid.UUID]UserRef, len(ids))
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		refs[u.ID] = UserRef{ID: u.ID, Name: u.Name()}
	}

	view := &PostView{
		ID:        post.ID,
		Title:     post.Title,
		Body:      post.Body,
		PostedBy:  refs[post.PostedBy],
		Likes:     append([]uuid.UUID{}, post.Likes...),
		Comments:  make([]CommentView, 0, len(post.Comments)),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	for _, c := range post.Comments {
		view.Comments = append(view.Comments, CommentView{
			ID:        c.ID,
			Text:      c.Text,
			PostedBy:  refs[c.PostedBy],
			CreatedAt: c.CreatedAt,
		})
	}
	return view, nil
}
