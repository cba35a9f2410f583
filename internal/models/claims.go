package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims carries the authenticated account identity through the request
// pipeline. The ledger engine trusts AccountID as an already-verified caller.
type UserClaims struct {
	jwt.RegisteredClaims
	AccountID    uint   `json:"account_id"`
	Email        string `json:"email"`
	TokenVersion int    `json:"token_version"`
}
