package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeCode string     `gorm:"column:employee_code;type:varchar(50);not null;uniqueIndex:uq_users_employee_code"`
	FirstName    string     `gorm:"column:first_name;type:varchar(50);not null"`
	LastName     string     `gorm:"column:last_name;type:varchar(50);not null"`
	Email        string     `gorm:"column:email;type:varchar(120);not null;uniqueIndex:uq_users_email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(128);not null"`
	DepartmentID uuid.UUID  `gorm:"column:department_id;type:uuid;not null"`
	Position     string     `gorm:"column:position;type:varchar(100)"`
	HireDate     *time.Time `gorm:"column:hire_date;type:date"`
	IsManager    bool       `gorm:"column:is_manager;not null;default:false"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`

	Department *DepartmentRef `gorm:"foreignKey:DepartmentID;references:ID"`
}

func (User) TableName() string {
	return "users"
}

// DepartmentRef joins the minimal department data needed on profiles.
// Departments themselves are static reference data maintained elsewhere.
type DepartmentRef struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (DepartmentRef) TableName() string {
	return "departments"
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
