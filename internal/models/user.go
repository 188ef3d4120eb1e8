package models

import "time"

// User is a platform login identity. Email is stored lowercased; the
// password hash is the only credential material ever persisted.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:64" json:"phone"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsStudent    bool      `gorm:"not null;default:false" json:"is_student"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentProfile holds per-student display data, keyed one-to-one by user.
type StudentProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName  string    `gorm:"size:255;not null" json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
