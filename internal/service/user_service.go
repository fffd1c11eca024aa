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

var ErrNotProfileOwner = errors.New("you can only update your own profile")

// UserRef is a resolved reference to another user, the shape follower and
// following entries take in client views.
type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UserView is the denormalized user representation returned to clients.
// Password and photo fields never appear here.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	IsActive  bool      `json:"isActive"`
	Following []UserRef `json:"following"`
	Followers []UserRef `json:"followers"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpdateProfileInput struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Photo            []byte
	PhotoContentType string
}

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserView, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.buildView(ctx, user)
}

func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) ([]*UserView, int64, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	users, err := s.userRepo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		view, err := s.buildView(ctx, u)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

// UpdateProfile applies partial profile changes. Only the profile's owner
// may update it.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, id uuid.UUID, input UpdateProfileInput) (*UserView, error) {
	if actorID != id {
		return nil, ErrNotProfileOwner
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Photo != nil {
		user.Photo = input.Photo
		user.PhotoContentType = input.PhotoContentType
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.buildView(ctx, user)
}

// GetAvatar returns the stored photo blob and its content type.
func (s *UserService) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	return user.Photo, user.PhotoContentType, nil
}

func (s *UserService) ChangeStatus(ctx context.Context, id uuid.UUID, active bool) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.IsActive = active
	return s.userRepo.Update(ctx, user)
}

// Follow appends targetID to the follower's following set and followerID
// to the target's followers set as two sequential writes. The updates are
// not atomic and repeat calls are not deduplicated; Unfollow compensates
// by removing every occurrence. A self-follow touches a single row, so
// both appends must land on one record or the second full-row save would
// overwrite the first.
func (s *UserService) Follow(ctx context.Context, followerID, targetID uuid.UUID) (*UserView, error) {
	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	target := follower
	if followerID != targetID {
		target, err = s.userRepo.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	follower.Following = append(follower.Following, targetID)
	target.Followers = append(target.Followers, followerID)

	if err := s.userRepo.Update(ctx, follower); err != nil {
		return nil, err
	}
	if target != follower {
		if err := s.userRepo.Update(ctx, target); err != nil {
			return nil, err
		}
	}

	return s.buildView(ctx, target)
}

// Unfollow removes every occurrence of targetID/followerID from the two
// sets, since duplicates are possible. Like Follow, a self-unfollow works
// on a single record.
func (s *UserService) Unfollow(ctx context.Context, followerID, targetID uuid.UUID) (*UserView, error) {
	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	target := follower
	if followerID != targetID {
		target, err = s.userRepo.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	follower.Following = removeAll(follower.Following, targetID)
	target.Followers = removeAll(target.Followers, followerID)

	if err := s.userRepo.Update(ctx, follower); err != nil {
		return nil, err
	}
	if target != follower {
		if err := s.userRepo.Update(ctx, target); err != nil {
			return nil, err
		}
	}

	return s.buildView(ctx, target)
}

// buildView resolves follower/following ids to {id, name} references
// with a single batched lookup.
func (s *UserService) buildView(ctx context.Context, user *domain.User) (*UserView, error) {
	refs, err := s.resolveRefs(ctx, append(append([]uuid.UUID{}, user.Following...), user.Followers...))
	if err != nil {
		return nil, err
	}

	view := &UserView{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		Following: make([]UserRef, 0, len(user.Following)),
		Followers: make([]UserRef, 0, len(user.Followers)),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	for _, id := range user.Following {
		if ref, ok := refs[id]; ok {
			view.Following = append(view.Following, ref)
		}
	}
	for _, id := range user.Followers {
		if ref, ok := refs[id]; ok {
			view.Followers = append(view.Followers, ref)
		}
	}
	return view, nil
}

func (s *UserService) resolveRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]UserRef, error) {
	refs := make(map[uuid.UUID]UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		refs[u.ID] = UserRef{ID: u.ID, Name: u.Name()}
	}
	return refs, nil
}

func removeAll(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	kept := ids[:0]
	for _, id := range ids {
		if id != target {
			kept = append(kept, id)
		}
	}
	return kept
}
