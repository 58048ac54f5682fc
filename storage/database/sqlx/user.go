package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

const userColumns = "id, username, email, is_active, password_hash, created_at, updated_at, last_login"

type userRepository struct {
	baseRepository
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DB) *userRepository {
	return &userRepository{baseRepository{db: db}}
}

func (repo userRepository) CheckUniqueness(ctx context.Context, username, email string, exec ...core.DBExecutor) error {
	ex := repo.getExec(exec)

	var taken []struct {
		Username string `db:"username"`
		Email    string `db:"email"`
	}
	q := ex.Rebind("SELECT username, email FROM users WHERE username = ? OR email = ?")
	if err := ex.SelectContext(ctx, &taken, q, username, email); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	for _, u := range taken {
		if u.Username == username {
			return user.ErrUsernameExists
		}
	}
	if len(taken) > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, role user.Role, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()
	usr.CreatedAt = usr.CreatedAt.UTC()
	usr.UpdatedAt = usr.UpdatedAt.UTC()

	err := repo.withTx(ctx, exec, func(ex core.DBExecutor) error {
		q := ex.Rebind("INSERT INTO users (" + userColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
		_, err := ex.ExecContext(ctx, q,
			usr.ID, usr.Username, usr.Email, usr.IsActive, string(usr.PasswordHash), usr.CreatedAt, usr.UpdatedAt, usr.LastLogin)
		if err != nil {
			if isUniqueViolation(err) {
				return user.ErrUsernameExists
			}
			return errors.Wrap(err, "inserting user")
		}

		q = ex.Rebind("INSERT INTO profiles (user_id, role, created_at) VALUES (?, ?, ?)")
		if _, err = ex.ExecContext(ctx, q, usr.ID, string(role), usr.CreatedAt); err != nil {
			return errors.Wrap(err, "inserting profile")
		}
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	ex := repo.getExec(exec)

	var (
		q    string
		args []interface{}
	)
	switch {
	case filter.ID != "":
		q, args = "SELECT "+userColumns+" FROM users WHERE id = ?", []interface{}{filter.ID}
	case filter.UsernameOrEmail != "":
		q = "SELECT " + userColumns + " FROM users WHERE username = ? OR email = ? ORDER BY username = ? DESC LIMIT 1"
		args = []interface{}{filter.UsernameOrEmail, filter.UsernameOrEmail, filter.UsernameOrEmail}
	default:
		return user.User{}, user.ErrNotFound
	}

	var usr user.User
	if err := ex.GetContext(ctx, &usr, ex.Rebind(q), args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "getting user")
	}
	return usr, nil
}

func (repo userRepository) GetProfile(ctx context.Context, userID string, exec ...core.DBExecutor) (user.Profile, error) {
	ex := repo.getExec(exec)

	var prof user.Profile
	q := ex.Rebind("SELECT user_id, role, created_at FROM profiles WHERE user_id = ?")
	if err := ex.GetContext(ctx, &prof, q, userID); err != nil {
		return user.Profile{}, trapNoRowsErr(err, user.ErrNotFound, "getting profile")
	}
	return prof, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	ex := repo.getExec(exec)

	q := ex.Rebind(`
		UPDATE users
		SET username = ?, email = ?, is_active = ?, password_hash = ?, updated_at = ?, last_login = ?
		WHERE id = ?`)
	usr.UpdatedAt = timeNow()
	res, err := ex.ExecContext(ctx, q,
		usr.Username, usr.Email, usr.IsActive, string(usr.PasswordHash), usr.UpdatedAt, usr.LastLogin, usr.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
