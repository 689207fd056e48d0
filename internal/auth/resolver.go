package auth

import (
	"context"
	"errors"
	"strings"

	"inventory-manager/internal/models"

	"gorm.io/gorm"
)

// Method records how a request was authenticated.
type Method string

const (
	MethodNone    Method = ""
	MethodSession Method = "session"
	MethodToken   Method = "token"
)

// SessionUserKey is the session key holding the user id.
const SessionUserKey = "user_id"

// UserLookup loads a user by id with AssignedStores preloaded.
// It returns gorm.ErrRecordNotFound for unknown ids.
type UserLookup func(ctx context.Context, id uint) (*models.User, error)

// GormUserLookup is the UserLookup used by the server.
func GormUserLookup(db *gorm.DB) UserLookup {
	return func(ctx context.Context, id uint) (*models.User, error) {
		var user models.User
		if err := db.WithContext(ctx).Preload("AssignedStores").First(&user, id).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
}

// Resolver turns a session value or bearer header into a user.
type Resolver struct {
	Users  UserLookup
	Tokens TokenStore
}

// Resolve tries the session first, then the bearer token. A nil user with
// a nil error means the request is unauthenticated.
func (r *Resolver) Resolve(ctx context.Context, sessionValue any, authHeader string) (*models.User, Method, error) {
	if uid, ok := sessionValue.(uint); ok && uid > 0 {
		user, err := r.load(ctx, uid)
		if err != nil {
			return nil, MethodNone, err
		}
		if user != nil {
			return user, MethodSession, nil
		}
	}

	token, ok := BearerToken(authHeader)
	if !ok {
		return nil, MethodNone, nil
	}
	uid, found, err := r.Tokens.Lookup(ctx, token)
	if err != nil {
		return nil, MethodNone, err
	}
	if !found {
		return nil, MethodNone, nil
	}
	user, err := r.load(ctx, uid)
	if err != nil || user == nil {
		return nil, MethodNone, err
	}
	return user, MethodToken, nil
}

func (r *Resolver) load(ctx context.Context, uid uint) (*models.User, error) {
	user, err := r.Users(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
