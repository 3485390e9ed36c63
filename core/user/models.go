package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/access"
)

// rolePriorities orders roles for assignment checks: a user cannot
// grant a role above their own.
var rolePriorities = map[access.Role]int{
	access.RoleAdmin:      30,
	access.RoleInstructor: 20,
	access.RoleStudent:    10,
	access.RoleParent:     10,
}

func RolePriority(role access.Role) int {
	return rolePriorities[role]
}

type User struct {
	ID           string      `json:"id"`
	OrgID        string      `json:"org_id"`
	Name         string      `json:"name"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Role         access.Role `json:"role"`
	IsActive     *bool       `json:"is_active"`
	PasswordHash []byte      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at"` // UTC
	LastLogin    time.Time   `json:"last_login"` // UTC
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

func (u *User) IsAdmin() bool      { return u.Role == access.RoleAdmin }
func (u *User) IsInstructor() bool { return u.Role == access.RoleInstructor }
func (u *User) IsStudent() bool    { return u.Role == access.RoleStudent }

// Principal builds the gating-engine view of this user. The entitlement
// tier comes from the user's organization plan, never from the client.
func (u *User) Principal(entitlement access.Tier) access.Principal {
	return access.Principal{
		ID:          u.ID,
		OrgID:       u.OrgID,
		Role:        u.Role,
		Entitlement: entitlement,
	}
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string      `json:"name" validate:"required"`
	Username        string      `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string      `json:"email" validate:"omitempty,email"`
	Role            access.Role `json:"role" validate:"required,knownrole"`
	Password        string      `json:"password" validate:"required"`
	PasswordConfirm string      `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string      `json:"name"`
	Username        string      `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string      `json:"email" validate:"omitempty,email"`
	IsActive        *bool       `json:"is_active"`
	Role            access.Role `json:"role" validate:"omitempty,knownrole"`
	Password        string      `json:"password" validate:"omitempty"`
	PasswordConfirm string      `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, svc *Service) error {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	if uname := core.CleanString(uu.Username, true /* lower */); uname != "" {
		uu.Username = uname
	} else {
		uu.Username = origUsr.Username
	}

	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	return svc.checkUniqueness(uu.Username, uu.Email, origUsr)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate() error { return core.Validate.Struct(rp) }

type QueryFilter struct {
	Search      string      `query:"search"`
	Role        access.Role `query:"role"`
	IsActive    *bool       `query:"is_active"`
	CreatedFrom time.Time   `query:"created_from"`
	CreatedTo   time.Time   `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.IsActive == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
