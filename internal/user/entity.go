package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EducationHighSchool    = "High School"
	EducationUndergraduate = "Undergraduate"
	EducationGraduate      = "Graduate"
	EducationProfessional  = "Professional"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"type:text" json:"name"`
	Email          string    `gorm:"type:text;uniqueIndex" json:"email"`
	EducationLevel string    `gorm:"type:text" json:"education_level"`
	Experience     int       `gorm:"not null;default:0" json:"experience"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
