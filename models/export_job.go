package models

import "time"

const (
	ExportQueued     = "queued"
	ExportProcessing = "processing"
	ExportDone       = "done"
	ExportFailed     = "failed"
)

type ExportJob struct {
	JobID       string    `gorm:"column:job_id;primaryKey;size:36" json:"job_id"`
	Resource    string    `gorm:"column:resource;size:20;not null" json:"resource"` // hostels, bookings
	Format      string    `gorm:"column:format;size:10;not null" json:"format"`     // csv, xlsx
	RequestedBy uint      `gorm:"column:requested_by;index" json:"requested_by"`
	Status      string    `gorm:"column:status;size:20;default:'queued'" json:"status"`
	FilePath    *string   `gorm:"column:file_path;type:text" json:"-"`
	ErrorMsg    *string   `gorm:"column:error_msg;type:text" json:"error_msg,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ExportJob) TableName() string {
	return "export_jobs"
}

// All lists every model managed by the migrator, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Hostel{},
		&HostelImage{},
		&Booking{},
		&Review{},
		&Enquiry{},
		&ExportJob{},
	}
}
