package service

import (
	"context"
	"database/sql"

	"golang.org/x/crypto/bcrypt"

	"github.com/discora/label-admin-api/internal/models"
	appErrors "github.com/discora/label-admin-api/pkg/errors"
)

// Authorizer gates privileged mutations (user edits and deletes). The
// dashboard shipped with a fixed shared secret compared client-side;
// the interface keeps the confirmation step but lets deployments plug
// in their own check.
type Authorizer interface {
	Authorize(ctx context.Context, actorID, confirmation string) error
}

type authorizerUserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// PasswordAuthorizer confirms the acting user's own password against
// the stored bcrypt hash.
type PasswordAuthorizer struct {
	users authorizerUserLookup
}

// NewPasswordAuthorizer constructs the default Authorizer.
func NewPasswordAuthorizer(users authorizerUserLookup) *PasswordAuthorizer {
	return &PasswordAuthorizer{users: users}
}

// Authorize returns ErrConfirmationFailed when the confirmation does
// not match the actor's password.
func (a *PasswordAuthorizer) Authorize(ctx context.Context, actorID, confirmation string) error {
	if confirmation == "" {
		return appErrors.Clone(appErrors.ErrConfirmationFailed, "confirmation password required")
	}
	actor, err := a.users.FindByID(ctx, actorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrUnauthorized, "acting user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load acting user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(confirmation)); err != nil {
		return appErrors.Clone(appErrors.ErrConfirmationFailed, "confirmation password does not match")
	}
	return nil
}
