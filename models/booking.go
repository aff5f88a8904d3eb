package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// Open reports whether the booking still blocks a new one for the same student and hostel.
func (s BookingStatus) Open() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	ID        uint          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	HostelID  uint          `gorm:"column:hostel_id;not null;index" json:"hostel_id"`
	StudentID uint          `gorm:"column:student_id;not null;index" json:"student_id"`
	Status    BookingStatus `gorm:"column:status;size:20;not null;default:'pending'" json:"status"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Hostel  *Hostel `gorm:"foreignKey:HostelID;references:ID;constraint:OnDelete:CASCADE;" json:"hostel,omitempty"`
	Student *User   `gorm:"foreignKey:StudentID;references:ID;constraint:OnDelete:CASCADE;" json:"student,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}
