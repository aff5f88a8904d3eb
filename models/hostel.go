package models

import (
	"errors"
	"strings"
	"time"
)

type Hostel struct {
	ID         uint          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string        `gorm:"column:name;size:150;not null" json:"name"`
	Address    string        `gorm:"column:address;size:255;not null" json:"address"`
	City       string        `gorm:"column:city;size:100;not null;index" json:"city"`
	Rent       int           `gorm:"column:rent;not null" json:"rent"`
	Facilities string        `gorm:"column:facilities;type:text" json:"facilities"` // comma separated
	OwnerID    uint          `gorm:"column:owner_id;not null;index" json:"owner_id"`
	IsVerified bool          `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	CreatedAt  time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Owner      *User         `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"owner,omitempty"`
	Images     []HostelImage `gorm:"foreignKey:HostelID" json:"images,omitempty"`
}

func (Hostel) TableName() string {
	return "hostels"
}

// FacilityList splits the free-text facilities column into trimmed tokens.
func (h Hostel) FacilityList() []string {
	var out []string
	for _, f := range strings.Split(h.Facilities, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

type HostelImage struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	HostelID  uint      `gorm:"column:hostel_id;not null;index" json:"hostel_id"`
	URL       string    `gorm:"column:url;type:text;not null" json:"url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (HostelImage) TableName() string {
	return "hostel_images"
}

// HostelPatch is a partial update of the owner-editable hostel fields.
// A nil field is left untouched.
type HostelPatch struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Rent       *int    `json:"rent"`
	Facilities *string `json:"facilities"`
}

var ErrEmptyPatch = errors.New("no fields to update")

func (p HostelPatch) Empty() bool {
	return p.Name == nil && p.Address == nil && p.City == nil && p.Rent == nil && p.Facilities == nil
}

func (p HostelPatch) Validate() error {
	if p.Empty() {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if p.Address != nil && strings.TrimSpace(*p.Address) == "" {
		return errors.New("address cannot be empty")
	}
	if p.City != nil && strings.TrimSpace(*p.City) == "" {
		return errors.New("city cannot be empty")
	}
	if p.Rent != nil && *p.Rent <= 0 {
		return errors.New("rent must be a positive integer")
	}
	return nil
}

// ApplyTo copies the set fields onto h and returns the struct field names
// that changed, suitable for gorm's Select.
func (p HostelPatch) ApplyTo(h *Hostel) []string {
	var fields []string
	if p.Name != nil {
		h.Name = strings.TrimSpace(*p.Name)
		fields = append(fields, "Name")
	}
	if p.Address != nil {
		h.Address = strings.TrimSpace(*p.Address)
		fields = append(fields, "Address")
	}
	if p.City != nil {
		h.City = strings.TrimSpace(*p.City)
		fields = append(fields, "City")
	}
	if p.Rent != nil {
		h.Rent = *p.Rent
		fields = append(fields, "Rent")
	}
	if p.Facilities != nil {
		h.Facilities = strings.TrimSpace(*p.Facilities)
		fields = append(fields, "Facilities")
	}
	return fields
}
