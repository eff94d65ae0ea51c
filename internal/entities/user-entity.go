package entities

import "inventory-system/pkg/types"

type User struct {
	ID           uint64  `json:"id"`
	UniversityID *uint64 `json:"university_id"`
	Fio          string  `json:"fio"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Role         string  `json:"role"`

	types.BaseEntity
}
