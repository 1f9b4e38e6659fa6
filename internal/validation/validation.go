// Package validation holds the pure input validators for the users API.
// Validators aggregate every violated constraint instead of stopping at
// the first, so clients see the full picture in one response.
package validation

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"userhub/internal/errors"
	"userhub/internal/model"
)

var validate = validator.New()

// ParseUserID coerces a raw path parameter into a user id. It rejects
// non-numeric input, fractional values, zero and negatives.
func ParseUserID(raw string) (uint, *errors.ValidationError) {
	verr := &errors.ValidationError{}
	raw = strings.TrimSpace(raw)

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		verr.Add("id", "id must be a valid number")
		return 0, verr
	}
	if f != math.Trunc(f) {
		verr.Add("id", "id must be an integer")
	}
	if f <= 0 {
		verr.Add("id", "id must be a positive integer")
	}
	if !verr.Empty() {
		return 0, verr
	}
	return uint(f), nil
}

// UserUpdate is a validated, normalized partial update. Only the fields
// present in the request are non-nil.
type UserUpdate struct {
	Name     *string
	Email    *string
	Role     *string
	Password *string
}

// TouchesRole reports whether the update asks for a role change, which
// only admins may request.
func (u *UserUpdate) TouchesRole() bool { return u.Role != nil }

// ParseUserUpdate validates an arbitrary JSON body against the update
// schema. Recognized keys are name, email, role and password; anything
// else is rejected rather than silently dropped. An update touching no
// recognized field is invalid.
func ParseUserUpdate(payload map[string]any) (*UserUpdate, *errors.ValidationError) {
	verr := &errors.ValidationError{}
	upd := &UserUpdate{}
	recognized := 0

	if raw, ok := payload["name"]; ok {
		recognized++
		if s, ok := raw.(string); !ok {
			verr.Add("name", "name must be a string")
		} else {
			s = strings.TrimSpace(s)
			if n := utf8.RuneCountInString(s); n < 2 || n > 255 {
				verr.Add("name", "name must be between 2 and 255 characters")
			} else {
				upd.Name = &s
			}
		}
	}

	if raw, ok := payload["email"]; ok {
		recognized++
		if s, ok := raw.(string); !ok {
			verr.Add("email", "email must be a string")
		} else {
			s = strings.ToLower(strings.TrimSpace(s))
			if len(s) > 255 {
				verr.Add("email", "email must be at most 255 characters")
			} else if validate.Var(s, "required,email") != nil {
				verr.Add("email", "email must be a valid email address")
			} else {
				upd.Email = &s
			}
		}
	}

	if raw, ok := payload["role"]; ok {
		recognized++
		if s, ok := raw.(string); !ok || !model.ValidRole(s) {
			verr.Add("role", "role must be one of 'user' or 'admin'")
		} else {
			upd.Role = &s
		}
	}

	if raw, ok := payload["password"]; ok {
		recognized++
		if s, ok := raw.(string); !ok {
			verr.Add("password", "password must be a string")
		} else if len(s) < 8 || len(s) > 128 {
			verr.Add("password", "password must be between 8 and 128 characters")
		} else {
			upd.Password = &s
		}
	}

	for _, key := range unknownKeys(payload) {
		verr.Add(key, "unrecognized field")
	}

	if recognized == 0 {
		verr.Add("body", "At least one field must be provided for update")
	}
	if !verr.Empty() {
		return nil, verr
	}
	return upd, nil
}

func unknownKeys(payload map[string]any) []string {
	var keys []string
	for key := range payload {
		switch key {
		case "name", "email", "role", "password":
		default:
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
