package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/session"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
)

func (a *App) login(ctx context.Context, args []string) error {
	store := session.MustFromContext(ctx)

	username := joinArgs(args)
	if username == "" {
		var err error
		if username, err = GetSimpleText(a.reader, "Username", a.out.w); err != nil {
			return err
		}
	}
	password, err := GetPassword(a.out.w)
	if err != nil {
		return err
	}

	if err := store.Login(ctx, username, password); err != nil {
		return err
	}
	a.out.Success("Logged in as %s", store.Snapshot().User.Username)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	session.MustFromContext(ctx).Logout(ctx)
	a.listLoaded = false
	a.out.Success("Logged out")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	s := session.MustFromContext(ctx).Snapshot()
	a.out.Printf("%s (id %s)\n", s.User.Username, s.User.ID)
	if !s.ExpiresAt.IsZero() {
		a.out.Printf("session expires %s\n", s.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func (a *App) users(ctx context.Context, _ []string) error {
	store := session.MustFromContext(ctx)
	if err := store.FetchUsers(ctx); err != nil {
		return err
	}
	users := store.Users().Items
	if len(users) == 0 {
		a.out.Println("No users.")
		return nil
	}
	for _, u := range users {
		status := "active"
		if !u.IsActive {
			status = "inactive"
		}
		a.out.Printf("%-24s %-20s %s\n", u.ID, u.Username, status)
	}
	return nil
}

func (a *App) userAdd(ctx context.Context, args []string) error {
	password, err := GetPassword(a.out.w)
	if err != nil {
		return err
	}
	if err := session.MustFromContext(ctx).CreateUser(ctx, models.UserCreate{Username: args[0], Password: password}); err != nil {
		return err
	}
	a.out.Success("User %s created", args[0])
	return nil
}

// userMod accepts "username=NAME", "active=BOOL" and a bare "password",
// which prompts for the new password.
func (a *App) userMod(ctx context.Context, args []string) error {
	var upd models.UserUpdate
	for _, arg := range args[1:] {
		key, val, hasVal := strings.Cut(arg, "=")
		switch {
		case key == "username" && hasVal:
			upd.Username = &val
		case key == "active" && hasVal:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("%w: active must be true or false", common.ErrValidation)
			}
			upd.IsActive = &b
		case key == "password" && !hasVal:
			pw, err := GetPassword(a.out.w)
			if err != nil {
				return err
			}
			upd.Password = &pw
		default:
			return fmt.Errorf("%w: unknown change %q", common.ErrValidation, arg)
		}
	}

	if err := session.MustFromContext(ctx).UpdateUser(ctx, args[0], upd); err != nil {
		return err
	}
	a.out.Success("User %s updated", args[0])
	return nil
}

func (a *App) userDel(ctx context.Context, args []string) error {
	if err := session.MustFromContext(ctx).DeleteUser(ctx, args[0]); err != nil {
		return err
	}
	a.out.Success("User %s deleted", args[0])
	return nil
}
