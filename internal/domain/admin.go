package domain

import "time"

const RoleAdmin = "admin"

// AdminUser is a back-office identity. Password always holds a bcrypt hash,
// never plaintext; the credential store enforces that before persisting.
type AdminUser struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	Password  string    `gorm:"size:255" json:"-"`
	Role      string    `gorm:"size:32" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName Specify table name
func (AdminUser) TableName() string {
	return "admin_users"
}
