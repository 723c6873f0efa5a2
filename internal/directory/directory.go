// Package directory resolves chat principals to employees and roles.
package directory

import (
	"context"
	"fmt"

	"github.com/myslide/leavebot/internal/store"
)

// Directory answers who a sender is and who should hear about a request.
type Directory struct {
	store *store.Store
}

func New(s *store.Store) *Directory {
	return &Directory{store: s}
}

// Lookup returns the directory entry for id, or ErrNotFound.
func (d *Directory) Lookup(ctx context.Context, id string) (store.User, error) {
	return d.store.GetUser(ctx, id)
}

// Role returns the sender's role, defaulting unknown senders to employee.
func (d *Directory) Role(ctx context.Context, id string) store.Role {
	u, err := d.store.GetUser(ctx, id)
	if err != nil {
		return store.RoleEmployee
	}
	return u.Role
}

// Managers returns everyone with decision authority: team leaders and HR.
func (d *Directory) Managers(ctx context.Context) ([]store.User, error) {
	leaders, err := d.store.ListUsers(ctx, store.RoleTeamLeader)
	if err != nil {
		return nil, fmt.Errorf("list team leaders: %w", err)
	}
	hr, err := d.store.ListUsers(ctx, store.RoleHR)
	if err != nil {
		return nil, fmt.Errorf("list hr: %w", err)
	}
	return append(leaders, hr...), nil
}

// TeamLeaders returns the team leaders only.
func (d *Directory) TeamLeaders(ctx context.Context) ([]store.User, error) {
	return d.store.ListUsers(ctx, store.RoleTeamLeader)
}

// HR returns the HR staff only.
func (d *Directory) HR(ctx context.Context) ([]store.User, error) {
	return d.store.ListUsers(ctx, store.RoleHR)
}

// Seed loads the configured roster into the store.
func (d *Directory) Seed(ctx context.Context, users []store.User) error {
	for _, u := range users {
		if err := d.store.UpsertUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	return nil
}
