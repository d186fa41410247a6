package entitlement

import "errors"

var ErrUserIDRequired = errors.New("user ID is required")
