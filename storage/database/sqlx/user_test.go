package sqlxrepos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
	sqlxrepos "github.com/Abiramialagugaganeshan/Learning-Management-System/storage/database/sqlx"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/tests"
)

func Test_userRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewUserRepository(db)
	ctx := context.Background()

	awe := testutil.CreateUser(t, repo, "awe", "awe@test.cd", "Awe-pwd-42", user.RoleStudent, true)
	testutil.CreateUser(t, repo, "king", "king@test.cd", "", user.RoleInstructor, true)

	t.Run("CheckUniqueness", func(t *testing.T) {
		tests := []struct {
			uname, email string
			want         error
		}{
			{uname: "awe", email: "new@test.cd", want: user.ErrUsernameExists},
			{uname: "new", email: "awe@test.cd", want: user.ErrEmailExists},
			{uname: "awe", email: "king@test.cd", want: user.ErrUsernameExists},
			{uname: "new", email: "new@test.cd", want: nil},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, repo.CheckUniqueness(ctx, tt.uname, tt.email), "%s / %s", tt.uname, tt.email)
		}
	})

	t.Run("CreateUser duplicate", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, user.User{Username: "awe", Email: "other@test.cd"}, user.RoleStudent)
		assert.Equal(t, user.ErrUsernameExists, err)
	})

	t.Run("GetUser", func(t *testing.T) {
		for _, key := range []string{"awe", "awe@test.cd"} {
			usr, err := repo.GetUser(ctx, user.GetFilter{UsernameOrEmail: key})
			require.NoError(t, err)
			assert.Equal(t, awe.ID, usr.ID)
			assert.NoError(t, usr.CheckPassword("Awe-pwd-42"))
		}
		_, err := repo.GetUser(ctx, user.GetFilter{ID: "lol"})
		assert.Equal(t, user.ErrNotFound, err)
		_, err = repo.GetUser(ctx, user.GetFilter{})
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("GetProfile", func(t *testing.T) {
		prof, err := repo.GetProfile(ctx, awe.ID)
		require.NoError(t, err)
		assert.Equal(t, user.RoleStudent, prof.Role)
		_, err = repo.GetProfile(ctx, "lol")
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("UpdateUser", func(t *testing.T) {
		usr := awe
		usr.IsActive = false
		_, err := repo.UpdateUser(ctx, usr)
		require.NoError(t, err)

		got, err := repo.GetUser(ctx, user.GetFilter{ID: awe.ID})
		require.NoError(t, err)
		assert.False(t, got.IsActive)

		_, err = repo.UpdateUser(ctx, user.User{ID: "lol"})
		assert.Equal(t, user.ErrNotFound, err)
	})
}
