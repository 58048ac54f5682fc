package user

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrProfileNotFound    = errors.New("User profile not found. Please re-register.")
	ErrEmailExists        = errors.New("Email already exists.")
	ErrUsernameExists     = errors.New("Username already exists.")
	ErrAuthFailed         = errors.New("Invalid username or password.")
	ErrAccountDeactivated = errors.New("This account has been deactivated.")
)

type (
	Repository interface {
		// CheckUniqueness returns ErrUsernameExists or ErrEmailExists when taken.
		CheckUniqueness(ctx context.Context, username, email string, exec ...core.DBExecutor) error
		// CreateUser inserts the User and its Profile atomically.
		CreateUser(ctx context.Context, usr User, role Role, exec ...core.DBExecutor) (User, error)
		GetUser(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (User, error)
		GetProfile(ctx context.Context, userID string, exec ...core.DBExecutor) (Profile, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(ctx context.Context, uname, email string) error {
	if err := svc.repo.CheckUniqueness(ctx, uname, email); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// Register creates an active User with the given role. nu must be validated first.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Username:  nu.Username,
		Email:     nu.Email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr, nu.Role)
}

// Authenticate checks the credentials, records the login and returns the resolved Principal.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (Principal, error) {
	usr, err := svc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err == ErrNotFound {
			return Principal{}, ErrAuthFailed
		}
		return Principal{}, pkgerrors.Wrap(err, "finding user by username or email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return Principal{}, ErrAuthFailed
	}
	if !usr.IsActive {
		return Principal{}, ErrAccountDeactivated
	}

	usr.LastLogin = null.TimeFrom(time.Now().UTC())
	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return Principal{}, pkgerrors.Wrap(err, "setting lastLogin")
	}
	return svc.principal(ctx, usr)
}

// ResolvePrincipal loads the User and its Profile role.
// Returns ErrProfileNotFound if the user has no profile, ErrNotFound if the user is gone or inactive.
func (svc *Service) ResolvePrincipal(ctx context.Context, userID string) (Principal, error) {
	usr, err := svc.GetByID(ctx, userID)
	if err != nil {
		return Principal{}, err
	}
	if !usr.IsActive {
		return Principal{}, ErrNotFound
	}
	return svc.principal(ctx, usr)
}

func (svc *Service) principal(ctx context.Context, usr User) (Principal, error) {
	prof, err := svc.repo.GetProfile(ctx, usr.ID)
	if err != nil {
		if err == ErrNotFound {
			return Principal{}, ErrProfileNotFound
		}
		return Principal{}, pkgerrors.Wrap(err, "getting profile")
	}
	return Principal{ID: usr.ID, Username: usr.Username, Email: usr.Email, Role: prof.Role}, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{UsernameOrEmail: core.CleanString(uname, true /* lower */)})
}
