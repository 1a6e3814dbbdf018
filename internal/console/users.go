package console

import (
	"context"
	"strings"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

type UserAPI interface {
	ListUsers(ctx context.Context, token string) ([]platform.User, error)
	UpsertUser(ctx context.Context, token string, u platform.User) error
	ToggleUser(ctx context.Context, token, id string) error
	DeleteUser(ctx context.Context, token, id string) error
}

// UsersController is the table+modal CRUD for staff accounts. Password
// handling is entirely upstream; the console never sees credentials beyond
// the login form.
type UsersController struct {
	store *state.Store
	api   UserAPI
	tok   TokenSource
}

func NewUsersController(store *state.Store, api UserAPI, tok TokenSource) *UsersController {
	return &UsersController{store: store, api: api, tok: tok}
}

func (c *UsersController) Load(ctx context.Context) error {
	users, err := c.api.ListUsers(ctx, c.tok())
	if err != nil {
		return err
	}
	c.store.Lock()
	c.store.Users = users
	c.store.Unlock()
	return nil
}

type UsersPage struct {
	Users  []platform.User `json:"users"`
	Status string          `json:"status,omitempty"`
}

func (c *UsersController) Render() UsersPage {
	c.store.Lock()
	defer c.store.Unlock()
	return UsersPage{Users: c.store.Users, Status: c.store.Status}
}

func (c *UsersController) Save(ctx context.Context, u platform.User) error {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return NewInvalidError("email required")
	}
	if u.Role == "" {
		u.Role = "moderator"
	}
	if err := c.api.UpsertUser(ctx, c.tok(), u); err != nil {
		return err
	}
	return c.Load(ctx)
}

func (c *UsersController) Toggle(ctx context.Context, id string) error {
	if err := c.api.ToggleUser(ctx, c.tok(), id); err != nil {
		return err
	}
	return c.Load(ctx)
}

func (c *UsersController) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteUser(ctx, c.tok(), id); err != nil {
		return err
	}
	return c.Load(ctx)
}
