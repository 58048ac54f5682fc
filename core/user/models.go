package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
)

// Role is the immutable profile role of a user.
type Role string

const (
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

var Roles = []RoleChoice{
	{Name: "Student", Value: RoleStudent},
	{Name: "Instructor", Value: RoleInstructor},
}

type RoleChoice struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

func (r Role) IsValid() bool {
	return r == RoleInstructor || r == RoleStudent
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
	LastLogin    null.Time `json:"last_login" db:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Profile carries the role of a User.
type Profile struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Principal is the authenticated caller, resolved once per request.
type Principal struct {
	ID       string
	Username string
	Email    string
	Role     Role
}

func (p Principal) IsInstructor() bool { return p.Role == RoleInstructor }
func (p Principal) IsStudent() bool    { return p.Role == RoleStudent }

// NewUser contains information needed to register a new User.
type NewUser struct {
	Username        string `json:"username" form:"username" validate:"required,min=3,max=150,alphanum_"`
	Email           string `json:"email" form:"email" validate:"required,email,max=254"`
	Password        string `json:"password" form:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
	Role            Role   `json:"role" form:"role" validate:"required,role"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, nu.Username, nu.Email)
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

type GetFilter struct {
	ID              string
	UsernameOrEmail string
}
