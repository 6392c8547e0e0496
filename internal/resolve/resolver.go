// Package resolve maps a free-form user token to exactly one saved session.
package resolve

import (
	"context"
	"errors"
	"strconv"

	"github.com/g960059/cch/internal/db"
	"github.com/g960059/cch/internal/model"
)

type Resolver struct {
	store *db.Store
}

func New(store *db.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve applies a strict priority chain: an all-digit token is a 1-based
// position into the recency-ordered list and nothing else (a fully numeric
// session ID cannot be addressed directly, which is a documented trade-off);
// otherwise exact ID match, then first-by-recency ID substring match.
func (r *Resolver) Resolve(ctx context.Context, token string) (model.Session, error) {
	if isDigits(token) {
		idx, err := strconv.Atoi(token)
		if err != nil {
			// Digits beyond int range cannot index any list.
			return model.Session{}, &model.NotFoundError{Token: token, Index: true}
		}
		sessions, err := r.store.ListSessions(ctx, 0)
		if err != nil {
			return model.Session{}, err
		}
		if idx < 1 || idx > len(sessions) {
			return model.Session{}, &model.NotFoundError{Token: token, Index: true}
		}
		return sessions[idx-1], nil
	}

	session, err := r.store.GetSessionByID(ctx, token)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return model.Session{}, err
	}

	session, err = r.store.GetSessionByIDFragment(ctx, token)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return model.Session{}, err
	}
	return model.Session{}, &model.NotFoundError{Token: token}
}

// IsIndexToken reports whether Resolve would treat token as a positional
// index rather than an ID.
func IsIndexToken(token string) bool {
	return isDigits(token)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
