// Package types holds the shared data structures used across the
// application. Handlers, storage, and validation all import types without
// depending on each other.
package types

import "encoding/json"

// Developer is a growdever record as stored and returned by the API.
//
// ID is generated by the store at creation and never changes afterwards.
type Developer struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Age        float64 `json:"age"`
	Registered bool    `json:"registered"`
}

// DeveloperInput is the raw write payload accepted by POST and PUT.
//
// Age and Registered are kept loosely typed so the validator can tell a
// missing value apart from a wrong one and report the matching rule.
type DeveloperInput struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Age        json.Number     `json:"age"`
	Registered json.RawMessage `json:"registered"`
}
