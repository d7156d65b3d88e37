package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidIdentity = errors.New("session: invalid identity")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Identity is what a participant announces about themselves. It is fixed
// for the lifetime of one connection.
type Identity struct {
	Username    string `json:"username" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (id Identity) normalize() Identity {
	return Identity{
		Username:    strings.TrimSpace(id.Username),
		Description: strings.TrimSpace(id.Description),
	}
}

// Validate trims the identity and checks it against what the variant
// requires. The trimmed identity is returned.
func (id Identity) Validate(v Variant) (Identity, error) {
	norm := id.normalize()

	var err error
	if v.requiresDescription() {
		err = validate.Struct(norm)
	} else {
		err = validate.StructExcept(norm, "Description")
	}
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Identity{}, fmt.Errorf("%w: %s is required", ErrInvalidIdentity, strings.ToLower(verrs[0].Field()))
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	return norm, nil
}
