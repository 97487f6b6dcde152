package auth

import "fmt"

var (
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrInvalidSigningMethod = fmt.Errorf("invalid signing method")
	ErrMissingToken         = fmt.Errorf("missing token")
	ErrForbidden            = fmt.Errorf("token type is not allowed")
)
