package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/maksv/social-network-api/internal/repository/postgres"
	"github.com/maksv/social-network-api/internal/service"
	"github.com/maksv/social-network-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	postService := service.NewPostService(repos.Post, repos.User)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().WithName("Post", "Author").Build(t, testDB.DB)

	view, err := postService.CreatePost(ctx, author.ID, service.CreatePostInput{
		Title: "A fresh post",
		Body:  "Some body text for the post",
	})
	require.NoError(t, err)
	assert.Equal(t, "A fresh post", view.Title)
	assert.Equal(t, author.ID, view.PostedBy.ID)
	assert.Equal(t, "Post Author", view.PostedBy.Name)
	assert.Empty(t, view.Likes)
	assert.Empty(t, view.Comments)

	got, err := postService.GetPost(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, got.ID)

	_, err = postService.GetPost(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrPostNotFound)
}

func TestPostService_Ownership(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	postService := service.NewPostService(repos.Post, repos.User)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	post := testutil.NewPostBuilder(owner.ID).Build(t, testDB.DB)

	t.Run("non-owner cannot update", func(t *testing.T) {
		title := "hijacked"
		_, err := postService.UpdatePost(ctx, stranger.ID, post.ID, service.UpdatePostInput{Title: &title})
		assert.ErrorIs(t, err, service.ErrNotPostOwner)

		stored, err := repos.Post.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Title, stored.Title)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		err := postService.DeletePost(ctx, stranger.ID, post.ID)
		assert.ErrorIs(t, err, service.ErrNotPostOwner)

		_, err = repos.Post.GetByID(ctx, post.ID)
		require.NoError(t, err)
	})

	t.Run("owner can update", func(t *testing.T) {
		title := "Renamed post"
		view, err := postService.UpdatePost(ctx, owner.ID, post.ID, service.UpdatePostInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Renamed post", view.Title)
	})

	t.Run("owner can delete", func(t *testing.T) {
		require.NoError(t, postService.DeletePost(ctx, owner.ID, post.ID))

		_, err := repos.Post.GetByID(ctx, post.ID)
		assert.Error(t, err)
	})
}

func TestPostService_LikeUnlike(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	postService := service.NewPostService(repos.Post, repos.User)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	liker, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	post := testutil.NewPostBuilder(author.ID).Build(t, testDB.DB)

	view, err := postService.Like(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{liker.ID}, view.Likes)

	// A second like is appended, not deduplicated
	view, err = postService.Like(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.Len(t, view.Likes, 2)

	// Unlike removes every occurrence
	view, err = postService.Unlike(ctx, post.ID, liker.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Likes)
}

func TestPostService_CommentUncomment(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	postService := service.NewPostService(repos.Post, repos.User)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	commenter, _ := testutil.NewUserBuilder().WithName("Chatty", "Commenter").Build(t, testDB.DB)
	post := testutil.NewPostBuilder(author.ID).Build(t, testDB.DB)

	view, err := postService.Comment(ctx, post.ID, commenter.ID, "first comment")
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	first := view.Comments[0]
	assert.Equal(t, "first comment", first.Text)
	assert.Equal(t, "Chatty Commenter", first.PostedBy.Name)
	assert.False(t, first.CreatedAt.IsZero())

	view, err = postService.Comment(ctx, post.ID, commenter.ID, "second comment")
	require.NoError(t, err)
	require.Len(t, view.Comments, 2)
	// Insertion order is preserved
	assert.Equal(t, first.ID, view.Comments[0].ID)

	t.Run("uncomment removes exactly the matching comment", func(t *testing.T) {
		view, err := postService.Uncomment(ctx, post.ID, first.ID)
		require.NoError(t, err)
		require.Len(t, view.Comments, 1)
		assert.Equal(t, "second comment", view.Comments[0].Text)
	})

	t.Run("uncomment with unknown id is a no-op", func(t *testing.T) {
		view, err := postService.Uncomment(ctx, post.ID, uuid.New())
		require.NoError(t, err)
		assert.Len(t, view.Comments, 1)
	})
}

func TestPostService_ListPosts(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	postService := service.NewPostService(repos.Post, repos.User)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	for i := 0; i < 6; i++ {
		testutil.NewPostBuilder(author.ID).Build(t, testDB.DB)
	}

	views, total, err := postService.ListPosts(ctx, 1, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Len(t, views, 4)

	views, _, err = postService.ListPosts(ctx, 2, 4)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
