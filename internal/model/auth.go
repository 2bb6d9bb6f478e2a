package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims binding a browser to one support-form session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// StartSessionResponse is returned when a new session is opened
type StartSessionResponse struct {
	SessionID string   `json:"sessionId"`
	Token     string   `json:"token"`
	Session   *Session `json:"session"`
}
