package domain

import "errors"

// Error kinds. Every error a service returns either matches one of these via
// errors.Is or is treated as an internal failure.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrBadRequest         = errors.New("invalid request")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrUserExists        = newKindError(ErrConflict, "user already exists")
	ErrUserNotFound      = newKindError(ErrNotFound, "user not found")
	ErrOnlyAdminCreates  = newKindError(ErrForbidden, "only an admin can create users")
	ErrPasswordTooLong   = newKindError(ErrBadRequest, "password must be at most 72 bytes")
	ErrNotOwner          = newKindError(ErrForbidden, "you can only edit your own articles")
	ErrAdminRequired     = newKindError(ErrForbidden, "admin access required")
	ErrArticleNotFound   = newKindError(ErrNotFound, "article not found")
	ErrArticleExists     = newKindError(ErrConflict, "an article with this slug already exists")
	ErrCategoryExists    = newKindError(ErrConflict, "category already exists")
	ErrUnknownCategory   = newKindError(ErrBadRequest, "category does not exist")
	ErrTagNotFound       = newKindError(ErrNotFound, "tag not found")
	ErrTagExists         = newKindError(ErrConflict, "tag already exists")
	ErrUnknownTag        = newKindError(ErrBadRequest, "one or more tags do not exist")
	ErrUnsupportedUpload = newKindError(ErrBadRequest, "unsupported file type")
	ErrUploadTooLarge    = newKindError(ErrBadRequest, "file exceeds the maximum upload size")
)

// KindError is a specific error that also matches its generic kind.
type KindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) *KindError {
	return &KindError{kind: kind, msg: msg}
}

func (e *KindError) Error() string { return e.msg }

func (e *KindError) Unwrap() error { return e.kind }

// Reason returns the short, client-safe description of err: the message of the
// most specific known error in its chain, or "" when err is not a domain error.
func Reason(err error) string {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	for _, kind := range []error{ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrConflict, ErrBadRequest, ErrInvalidCredentials} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ""
}

// Invalid builds a bad-request error carrying msg as its client-facing reason.
func Invalid(msg string) error {
	return newKindError(ErrBadRequest, msg)
}
