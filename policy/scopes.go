package policy

import (
	"strconv"
	"strings"

	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/utils"
	"gorm.io/gorm"
)

// VisibleHostels restricts a hostels query to what actor may see.
func VisibleHostels(actor models.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch actor.Role {
		case models.RoleAdmin:
			return db
		case models.RoleOwner:
			return db.Where("hostels.owner_id = ?", actor.ID)
		case models.RoleStudent:
			return db.Where("hostels.is_verified = ?", true)
		}
		return db.Where("1 = 0")
	}
}

// HostelFilter holds the optional search predicates, combined with AND.
type HostelFilter struct {
	City     string
	MaxRent  *int
	Facility string
}

// ParseHostelFilter reads the raw query values of GET /hostels/search.
func ParseHostelFilter(city, maxRent, facility string) (HostelFilter, error) {
	f := HostelFilter{
		City:     strings.TrimSpace(city),
		Facility: strings.TrimSpace(facility),
	}
	if maxRent = strings.TrimSpace(maxRent); maxRent != "" {
		n, err := strconv.Atoi(maxRent)
		if err != nil || n <= 0 {
			return HostelFilter{}, utils.BadRequest("maxRent must be a positive integer")
		}
		f.MaxRent = &n
	}
	return f, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f HostelFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.City != "" {
			db = db.Where("hostels.city = ?", f.City)
		}
		if f.MaxRent != nil {
			db = db.Where("hostels.rent <= ?", *f.MaxRent)
		}
		if f.Facility != "" {
			db = db.Where(`LOWER(hostels.facilities) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(f.Facility))+"%")
		}
		return db
	}
}

// Matches is the in-memory form of Scope.
func (f HostelFilter) Matches(h models.Hostel) bool {
	if f.City != "" && h.City != f.City {
		return false
	}
	if f.MaxRent != nil && h.Rent > *f.MaxRent {
		return false
	}
	if f.Facility != "" && !strings.Contains(strings.ToLower(h.Facilities), strings.ToLower(f.Facility)) {
		return false
	}
	return true
}
