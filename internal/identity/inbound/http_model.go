package inbound

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type RegisterResponse struct {
	ID       int64  `json:"id,string"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (RegisterResponse) Message() string {
	return "Registration successful"
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type LogoutResponse struct{}

func (LogoutResponse) Message() string {
	return "Logout successful"
}

type UserListItemResponse struct {
	ID        int64     `json:"id,string"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UserListResponse struct {
	Users []UserListItemResponse `json:"users"`
}

type UserDeleteResponse struct{}

func (UserDeleteResponse) Message() string {
	return "User deleted"
}
