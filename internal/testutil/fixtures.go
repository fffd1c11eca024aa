package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maksv/social-network-api/internal/domain"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username  string
	email     string
	firstName string
	lastName  string
	password  string
	active    bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username:  fmt.Sprintf("testuser_%s", suffix),
		email:     fmt.Sprintf("testuser_%s@example.com", suffix),
		firstName: "Test",
		lastName:  "User",
		password:  "testpassword123",
		active:    true,
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithName(first, last string) *UserBuilder {
	b.firstName = first
	b.lastName = last
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) Inactive() *UserBuilder {
	b.active = false
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	user := &domain.User{
		ID:        uuid.New(),
		Username:  b.username,
		Email:     b.email,
		FirstName: b.firstName,
		LastName:  b.lastName,
		IsActive:  b.active,
		Following: []uuid.UUID{},
		Followers: []uuid.UUID{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := user.SetPassword(b.password); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// Envelope mirrors the API's uniform response wrapper.
type Envelope struct {
	Payload json.RawMessage `json:"payload"`
	Message *string         `json:"message"`
}

// SigninPayload matches the signin endpoint's payload shape.
type SigninPayload struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

// BuildAndAuthenticate creates a user in the database, signs in through
// the API and returns the user with a valid access token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, rawPassword := b.Build(t, ts.DB.DB)

	reqBody := map[string]string{
		"login":    b.username,
		"password": rawPassword,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/signin"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to sign in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode signin response: %v", err)
	}
	var payload SigninPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("failed to decode signin payload: %v", err)
	}

	return user, payload.AccessToken
}

// PostBuilder creates test posts with a builder pattern
type PostBuilder struct {
	title    string
	body     string
	postedBy uuid.UUID
}

// NewPostBuilder creates a new PostBuilder with default values
func NewPostBuilder(postedBy uuid.UUID) *PostBuilder {
	return &PostBuilder{
		title:    "Test post title",
		body:     "Test post body with enough characters",
		postedBy: postedBy,
	}
}

func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.title = title
	return b
}

func (b *PostBuilder) WithBody(body string) *PostBuilder {
	b.body = body
	return b
}

// Build creates the post in the database
func (b *PostBuilder) Build(t *testing.T, db *gorm.DB) *domain.Post {
	t.Helper()

	post := &domain.Post{
		ID:        uuid.New(),
		Title:     b.title,
		Body:      b.body,
		PostedBy:  b.postedBy,
		Likes:     []uuid.UUID{},
		Comments:  []domain.Comment{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return post
}
