package users

import "foodgram/internal/pkg/apperr"

var (
	ErrSelfSubscribe     = apperr.ValidationWithDetails("cannot subscribe to yourself", map[string]string{"author": "must differ from the current user"})
	ErrAlreadySubscribed = apperr.Conflict("already subscribed to this author")
)
