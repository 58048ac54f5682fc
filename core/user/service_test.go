package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
	sqlxrepos "github.com/Abiramialagugaganeshan/Learning-Management-System/storage/database/sqlx"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/tests"
)

const pwd = "Str0ng!Pass"

func TestNewUser_Validate(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewUserRepository(db)
	svc := user.NewService(repo)
	validate, translator := testutil.NewValidator()
	user.LoadCommonPasswords(testutil.NewLogger(t))

	testutil.CreateUser(t, repo, "taken", "taken@test.cd", "", user.RoleStudent, true)

	valid := func() user.NewUser {
		return user.NewUser{
			Username:        "awe",
			Email:           "awe@test.cd",
			Password:        pwd,
			PasswordConfirm: pwd,
			Role:            user.RoleStudent,
		}
	}

	tests := []struct {
		name      string
		modify    func(nu *user.NewUser)
		wantField string
		wantMsg   string
	}{
		{name: "valid", modify: func(nu *user.NewUser) {}},
		{name: "cleaned", modify: func(nu *user.NewUser) {
			nu.Username, nu.Email, nu.Role = " AWE ", " Awe@Test.cd ", "Instructor"
		}},
		{name: "invalid role", wantField: "role", wantMsg: "invalid role", modify: func(nu *user.NewUser) {
			nu.Role = "admin"
		}},
		{name: "password mismatch", wantField: "password_confirm", modify: func(nu *user.NewUser) {
			nu.PasswordConfirm = pwd + "x"
		}},
		{name: "short password", wantField: "password", wantMsg: "password must contain at least 8 characters", modify: func(nu *user.NewUser) {
			nu.Password, nu.PasswordConfirm = "Sh0r!t", "Sh0r!t"
		}},
		{name: "whitespace", wantField: "password", wantMsg: "password must not contain whitespace", modify: func(nu *user.NewUser) {
			nu.Password, nu.PasswordConfirm = "Has Sp4ce!", "Has Sp4ce!"
		}},
		{name: "numeric", wantField: "password", wantMsg: "password cannot be entirely numeric", modify: func(nu *user.NewUser) {
			nu.Password, nu.PasswordConfirm = "1234567890", "1234567890"
		}},
		{name: "simple", wantField: "password", modify: func(nu *user.NewUser) {
			nu.Password, nu.PasswordConfirm = "alllowercase1!", "alllowercase1!"
		}},
		{name: "similar to username", wantField: "password", wantMsg: "password cannot be similar to user attributes", modify: func(nu *user.NewUser) {
			nu.Username = "johnsmith"
			nu.Password, nu.PasswordConfirm = "Johnsmith1!", "Johnsmith1!"
		}},
		{name: "common", wantField: "password", wantMsg: "password is too common", modify: func(nu *user.NewUser) {
			nu.Password, nu.PasswordConfirm = "P@ssw0rd", "P@ssw0rd"
		}},
		{name: "username taken", wantField: "username", wantMsg: user.ErrUsernameExists.Error(), modify: func(nu *user.NewUser) {
			nu.Username = "Taken"
		}},
		{name: "email taken", wantField: "email", wantMsg: user.ErrEmailExists.Error(), modify: func(nu *user.NewUser) {
			nu.Email = "TAKEN@test.cd"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := valid()
			tt.modify(&nu)

			err := nu.Validate(context.Background(), validate, svc)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			fields, ok := core.FieldErrors(err, translator)
			require.True(t, ok, "not a validation error: %v", err)
			require.Contains(t, fields, tt.wantField)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, fields[tt.wantField])
			}
		})
	}

	t.Run("cleaned values", func(t *testing.T) {
		nu := valid()
		nu.Username, nu.Email, nu.Role = " AWE ", " Awe@Test.cd ", "Instructor"
		require.NoError(t, nu.Validate(context.Background(), validate, svc))
		assert.Equal(t, "awe", nu.Username)
		assert.Equal(t, "awe@test.cd", nu.Email)
		assert.Equal(t, user.RoleInstructor, nu.Role)
	})
}

func TestService_Authenticate(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewUserRepository(db)
	svc := user.NewService(repo)
	ctx := context.Background()

	awe, err := svc.Register(ctx, user.NewUser{Username: "awe", Email: "awe@test.cd", Password: pwd, Role: user.RoleInstructor})
	require.NoError(t, err)
	assert.True(t, awe.IsActive)
	assert.False(t, awe.LastLogin.Valid)
	testutil.CreateUser(t, repo, "lazy", "lazy@test.cd", pwd, user.RoleStudent, false)

	tests := []struct {
		name, uname, pwd string
		wantErr          error
	}{
		{name: "unknown user", uname: "nobody", pwd: pwd, wantErr: user.ErrAuthFailed},
		{name: "wrong password", uname: "awe", pwd: pwd + "x", wantErr: user.ErrAuthFailed},
		{name: "deactivated", uname: "lazy", pwd: pwd, wantErr: user.ErrAccountDeactivated},
		{name: "by username", uname: "awe", pwd: pwd},
		{name: "by email", uname: " AWE@test.cd", pwd: pwd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Authenticate(ctx, tt.uname, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.Principal{ID: awe.ID, Username: "awe", Email: "awe@test.cd", Role: user.RoleInstructor}, p)
			assert.True(t, p.IsInstructor())
		})
	}

	got, err := svc.GetByID(ctx, awe.ID)
	require.NoError(t, err)
	assert.True(t, got.LastLogin.Valid)
}

func TestService_ResolvePrincipal(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewUserRepository(db)
	svc := user.NewService(repo)
	ctx := context.Background()

	stud := testutil.CreateUser(t, repo, "stud", "stud@test.cd", "", user.RoleStudent, true)
	lazy := testutil.CreateUser(t, repo, "lazy", "lazy@test.cd", "", user.RoleStudent, false)
	orphan := testutil.CreateUser(t, repo, "orphan", "orphan@test.cd", "", user.RoleStudent, true)
	_, err := db.Exec(db.Rebind("DELETE FROM profiles WHERE user_id = ?"), orphan.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  string
		want    user.Principal
		wantErr error
	}{
		{name: "unknown", userID: "lol", wantErr: user.ErrNotFound},
		{name: "inactive", userID: lazy.ID, wantErr: user.ErrNotFound},
		{name: "no profile", userID: orphan.ID, wantErr: user.ErrProfileNotFound},
		{name: "student", userID: stud.ID, want: testutil.AsPrincipal(stud, user.RoleStudent)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolvePrincipal(ctx, tt.userID)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
