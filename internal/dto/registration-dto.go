package dto

import "gearguard/internal/entities"

type SignupDTO struct {
	Username      string        `json:"username" validate:"required,max=150"`
	Email         string        `json:"email" validate:"required,email"`
	FirstName     string        `json:"first_name" validate:"max=150"`
	LastName      string        `json:"last_name" validate:"max=150"`
	Password      string        `json:"password" validate:"required,min=8"`
	RequestedRole entities.Role `json:"requested_role" validate:"omitempty,oneof=User Technician Manager"`
}

type RejectRegistrationDTO struct {
	RejectionReason string `json:"rejection_reason" validate:"max=2000"`
}

type RegistrationFilterDTO struct {
	Status string `query:"status"`
	Limit  uint64 `query:"limit"`
	Offset uint64 `query:"offset"`
}

type ApproveResultDTO struct {
	UserID      uint64        `json:"user_id"`
	Username    string        `json:"username"`
	Role        entities.Role `json:"role"`
	UserExisted bool          `json:"user_existed"`
}
