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

func TestUserService_FollowUnfollow(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	userService := service.NewUserService(repos.User)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().WithName("Alice", "Smith").Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().WithName("Bob", "Jones").Build(t, testDB.DB)

	t.Run("follow updates both sides", func(t *testing.T) {
		view, err := userService.Follow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		// The returned view is the followed user with resolved references
		assert.Equal(t, bob.ID, view.ID)
		require.Len(t, view.Followers, 1)
		assert.Equal(t, alice.ID, view.Followers[0].ID)
		assert.Equal(t, "Alice Smith", view.Followers[0].Name)

		storedAlice, err := repos.User.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{bob.ID}, []uuid.UUID(storedAlice.Following))

		storedBob, err := repos.User.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{alice.ID}, []uuid.UUID(storedBob.Followers))
	})

	t.Run("repeat follow piles up duplicates", func(t *testing.T) {
		_, err := userService.Follow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		storedAlice, err := repos.User.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, storedAlice.Following, 2)
	})

	t.Run("unfollow removes every occurrence", func(t *testing.T) {
		view, err := userService.Unfollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)

		assert.Empty(t, view.Followers)

		storedAlice, err := repos.User.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, storedAlice.Following)

		storedBob, err := repos.User.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, storedBob.Followers)
	})

	t.Run("follow unknown user fails", func(t *testing.T) {
		_, err := userService.Follow(ctx, alice.ID, uuid.New())
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

func TestUserService_SelfFollow(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	userService := service.NewUserService(repos.User)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithName("Self", "Referential").Build(t, testDB.DB)

	t.Run("both sides land on the one row", func(t *testing.T) {
		view, err := userService.Follow(ctx, user.ID, user.ID)
		require.NoError(t, err)

		require.Len(t, view.Following, 1)
		require.Len(t, view.Followers, 1)
		assert.Equal(t, user.ID, view.Following[0].ID)
		assert.Equal(t, user.ID, view.Followers[0].ID)

		stored, err := repos.User.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{user.ID}, []uuid.UUID(stored.Following))
		assert.Equal(t, []uuid.UUID{user.ID}, []uuid.UUID(stored.Followers))
	})

	t.Run("self-unfollow clears both sides", func(t *testing.T) {
		view, err := userService.Unfollow(ctx, user.ID, user.ID)
		require.NoError(t, err)

		assert.Empty(t, view.Following)
		assert.Empty(t, view.Followers)

		stored, err := repos.User.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Following)
		assert.Empty(t, stored.Followers)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	userService := service.NewUserService(repos.User)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithName("Old", "Name").Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	t.Run("owner can update", func(t *testing.T) {
		first := "New"
		view, err := userService.UpdateProfile(ctx, user.ID, user.ID, service.UpdateProfileInput{
			FirstName: &first,
		})
		require.NoError(t, err)
		assert.Equal(t, "New", view.FirstName)
		assert.Equal(t, "Name", view.LastName)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		first := "Hax"
		_, err := userService.UpdateProfile(ctx, other.ID, user.ID, service.UpdateProfileInput{
			FirstName: &first,
		})
		assert.ErrorIs(t, err, service.ErrNotProfileOwner)

		stored, err := repos.User.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "New", stored.FirstName)
	})

	t.Run("photo is stored and served", func(t *testing.T) {
		photo := []byte{0x89, 0x50, 0x4e, 0x47}
		_, err := userService.UpdateProfile(ctx, user.ID, user.ID, service.UpdateProfileInput{
			Photo:            photo,
			PhotoContentType: "image/png",
		})
		require.NoError(t, err)

		data, contentType, err := userService.GetAvatar(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, photo, data)
		assert.Equal(t, "image/png", contentType)
	})
}

func TestUserService_ChangeStatus(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	userService := service.NewUserService(repos.User)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	require.NoError(t, userService.ChangeStatus(ctx, user.ID, false))

	stored, err := repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	require.NoError(t, userService.ChangeStatus(ctx, user.ID, true))

	stored, err = repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)

	err = userService.ChangeStatus(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	userService := service.NewUserService(repos.User)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		testutil.NewUserBuilder().Build(t, testDB.DB)
	}

	views, total, err := userService.ListUsers(ctx, 1, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Len(t, views, 5)

	views, _, err = userService.ListUsers(ctx, 2, 5)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
