// Package validation checks developer write payloads.
//
// Rules run in a fixed order and stop at the first failure, so a client
// always gets exactly one message back.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/growdev/growdevers-api/internal/storage"
	"github.com/growdev/growdevers-api/internal/types"
)

// Rule messages returned to clients.
const (
	MsgNameMissing       = "O campo nome não foi preenchido"
	MsgEmailMissing      = "O campo email não foi preenchido"
	MsgAgeMissing        = "O campo idade não foi preenchido"
	MsgUnderage          = "O growdever deve ser maior de idade (+18)"
	MsgRegisteredInvalid = "O campo registered deve ser true ou false"
	MsgNotRegistered     = "O growdever precisa estar matriculado"
)

// MinAge is the minimum age accepted on write.
const MinAge = 18

// Error is a rule violation. It maps to HTTP 400.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsValidationError reports whether err is, or wraps, a *Error.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

var validate = validator.New()

// check runs a single validator tag against value and turns a failure into
// an *Error carrying msg.
func check(field string, value any, tag, msg string) error {
	if err := validate.Var(value, tag); err != nil {
		return &Error{Field: field, Message: msg}
	}
	return nil
}

// Developer checks in and returns the developer it describes. Registered
// defaults to false when the payload omits it.
func Developer(in types.DeveloperInput) (types.Developer, error) {
	if err := check("name", in.Name, "required", MsgNameMissing); err != nil {
		return types.Developer{}, err
	}
	if err := check("email", in.Email, "required", MsgEmailMissing); err != nil {
		return types.Developer{}, err
	}

	age, err := parseAge(in.Age)
	if err != nil {
		return types.Developer{}, &Error{Field: "age", Message: MsgAgeMissing}
	}
	if err := check("age", age, "required", MsgAgeMissing); err != nil {
		return types.Developer{}, err
	}
	if err := check("age", age, fmt.Sprintf("gte=%d", MinAge), MsgUnderage); err != nil {
		return types.Developer{}, err
	}

	registered, err := parseRegistered(in.Registered)
	if err != nil {
		return types.Developer{}, &Error{Field: "registered", Message: MsgRegisteredInvalid}
	}

	return types.Developer{
		Name:       in.Name,
		Email:      in.Email,
		Age:        age,
		Registered: registered,
	}, nil
}

func parseAge(n json.Number) (float64, error) {
	if n == "" {
		return 0, errors.New("age is missing")
	}
	return n.Float64()
}

// parseRegistered accepts only a JSON boolean. An absent field is false;
// an explicit null is rejected.
func parseRegistered(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 {
		return false, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("registered is %T, not bool", v)
	}
	return b, nil
}

// RequireRegistered rejects updates to a developer that exists but is not
// registered. A missing developer passes, leaving the 404 to the handler.
func RequireRegistered(s storage.Storage, id string) error {
	dev, err := s.GetDeveloperByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !dev.Registered {
		return &Error{Field: "registered", Message: MsgNotRegistered}
	}
	return nil
}
