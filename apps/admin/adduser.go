package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/access"
	"github.com/darasahq/darasa/core/org"
	"github.com/darasahq/darasa/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, role access.Role) error {
	if !role.Known() {
		return errors.Errorf("unknown role %q", role)
	}

	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	o, err := cli.orgRepo.EnsureOrganization(ctx, org.Organization{
		Name:     cli.conf.Org.Name,
		Plan:     cli.conf.Org.Plan,
		Features: cli.conf.Org.Features,
	})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	active := true

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			OrgID:     o.ID,
			Username:  uname,
			Email:     email,
			CreatedAt: now,
		}
	}
	usr.Role = role
	usr.IsActive = &active
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr, &active)
	}
	return err
}
