package models

import (
	"time"

	"gorm.io/datatypes"
)

type EnquiryType string

const (
	EnquiryGeneral       EnquiryType = "enquiry"
	EnquiryScheduleVisit EnquiryType = "schedule_visit"
)

func (t EnquiryType) Valid() bool {
	return t == EnquiryGeneral || t == EnquiryScheduleVisit
}

type EnquiryStatus string

const (
	EnquiryPending   EnquiryStatus = "pending"
	EnquiryResponded EnquiryStatus = "responded"
)

type Enquiry struct {
	ID            uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	HostelID      uint            `gorm:"column:hostel_id;not null;index" json:"hostel_id"`
	StudentID     uint            `gorm:"column:student_id;not null;index" json:"student_id"`
	Type          EnquiryType     `gorm:"column:type;size:20;not null" json:"type"`
	Message       *string         `gorm:"column:message;type:text" json:"message"`
	ScheduledDate *datatypes.Date `gorm:"column:scheduled_date" json:"scheduled_date"`
	Reply         *string         `gorm:"column:reply;type:text" json:"reply"`
	Status        EnquiryStatus   `gorm:"column:status;size:20;not null;default:'pending'" json:"status"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	RepliedAt     *time.Time      `gorm:"column:replied_at" json:"replied_at"`

	Hostel  *Hostel `gorm:"foreignKey:HostelID;references:ID;constraint:OnDelete:CASCADE;" json:"hostel,omitempty"`
	Student *User   `gorm:"foreignKey:StudentID;references:ID;constraint:OnDelete:CASCADE;" json:"student,omitempty"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}
