package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Comment   *string   `gorm:"column:comment;type:text" json:"comment"`
	HostelID  uint      `gorm:"column:hostel_id;not null;index" json:"hostel_id"`
	StudentID uint      `gorm:"column:student_id;not null;index" json:"student_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Hostel  *Hostel `gorm:"foreignKey:HostelID;references:ID;constraint:OnDelete:CASCADE;" json:"hostel,omitempty"`
	Student *User   `gorm:"foreignKey:StudentID;references:ID;constraint:OnDelete:CASCADE;" json:"student,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
