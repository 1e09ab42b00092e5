package dto

import "time"

type GenerateCodeRequestDTO struct {
	Identifier string `json:"identifier" validate:"required" example:"+2348012345678"`
	Purpose    string `json:"purpose" validate:"required" example:"REGISTRATION"`
}

type GenerateCodeResponseDTO struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at" example:"2020-12-09T16:11:57+03:00"`
}

type VerifyCodeRequestDTO struct {
	Identifier string `json:"identifier" validate:"required" example:"+2348012345678"`
	Code       string `json:"code" validate:"required" example:"045921"`
	Purpose    string `json:"purpose" validate:"required" example:"REGISTRATION"`
}

type VerifyCodeResponseDTO struct {
	Verified bool `json:"verified"`
}

type LockStatusResponseDTO struct {
	Locked            bool       `json:"locked"`
	AttemptsRemaining int        `json:"attempts_remaining"`
	LockedUntil       *time.Time `json:"locked_until,omitempty"`
}
