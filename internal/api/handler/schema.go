package handler

import "github.com/debttracker/debt-api/internal/core/domain"

// messageResponse is the envelope for every error and every outcome-only
// success.
type messageResponse struct {
	Msg string `json:"msg"`
}

func msg(s string) messageResponse { return messageResponse{Msg: s} }

// --- auth ---

type registerRequest struct {
	Username        string `json:"username"        validate:"required"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmpassword" validate:"required"`
	Role            string `json:"role"            validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Msg      string      `json:"msg"`
	Token    string      `json:"token"`
	Role     domain.Role `json:"role"`
	UserID   string      `json:"userId"`
	Username string      `json:"username"`
}

// --- users ---

type updateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type userMessageResponse struct {
	Msg  string       `json:"msg"`
	User *domain.User `json:"user"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}

// --- debts ---

type createDebtRequest struct {
	UserID  string  `json:"userId"  validate:"required"`
	Name    string  `json:"name"    validate:"required"`
	Value   float64 `json:"value"   validate:"required"`
	DueDate string  `json:"dueDate" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type editDebtRequest struct {
	UserID  string  `json:"userId"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	DueDate string  `json:"dueDate"`
	Status  string  `json:"status"`
}

type debtMessageResponse struct {
	Msg  string       `json:"msg"`
	Debt *domain.Debt `json:"debt"`
}

type debtsResponse struct {
	Debts []*domain.Debt `json:"debts"`
}
