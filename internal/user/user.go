package user

import (
	"fmt"
	"time"

	"rentalmanager/internal/api"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ParseRole(s string) (string, error) {
	switch s {
	case api.RoleAdmin, api.RoleStaff, api.RoleViewer:
		return s, nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}
