package main

import (
	"context"
	"time"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

// addUser updates the password of an existing user.User, or creates one with the given role.
func (cli *commandLine) addUser(uname, email, pwd string, role user.Role) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: uname})
	if err == nil {
		usr.IsActive = true
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
		return err
	}
	if err != user.ErrNotFound {
		return err
	}

	now := time.Now().UTC()
	usr = user.User{
		Username:  uname,
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	if err = cli.usrRepo.CheckUniqueness(ctx, uname, email); err != nil {
		return err
	}
	_, err = cli.usrRepo.CreateUser(ctx, usr, role)
	return err
}
