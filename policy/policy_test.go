package policy

import (
	"errors"
	"net/http"
	"testing"

	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/utils"
)

var (
	admin    = models.Identity{ID: 1, Role: models.RoleAdmin}
	owner    = models.Identity{ID: 2, Role: models.RoleOwner}
	rival    = models.Identity{ID: 3, Role: models.RoleOwner}
	student  = models.Identity{ID: 4, Role: models.RoleStudent}
	stranger = models.Identity{ID: 5, Role: models.RoleStudent}
)

func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var he *utils.HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return -1
}

func TestAuthorize(t *testing.T) {
	verified := Resource{HostelOwnerID: owner.ID, HostelVerified: true}
	draft := Resource{HostelOwnerID: owner.ID}
	booking := Resource{HostelOwnerID: owner.ID, HostelVerified: true, StudentID: student.ID}

	tests := []struct {
		name  string
		actor models.Identity
		op    Operation
		res   Resource
		want  int
	}{
		{"student views verified", student, ViewHostel, verified, 200},
		{"student views draft", student, ViewHostel, draft, 403},
		{"owner views own draft", owner, ViewHostel, draft, 200},
		{"owner views rival hostel", rival, ViewHostel, verified, 403},
		{"admin views draft", admin, ViewHostel, draft, 200},

		{"owner creates hostel", owner, CreateHostel, Resource{}, 200},
		{"student creates hostel", student, CreateHostel, Resource{}, 403},
		{"owner updates own", owner, UpdateHostel, draft, 200},
		{"rival updates", rival, UpdateHostel, draft, 403},
		{"admin deletes", admin, DeleteHostel, draft, 403},

		{"admin verifies", admin, VerifyHostel, draft, 200},
		{"owner verifies", owner, VerifyHostel, draft, 403},
		{"admin exports", admin, ExportData, Resource{}, 200},

		{"student books verified", student, CreateBooking, verified, 200},
		{"student books draft", student, CreateBooking, draft, 403},
		{"owner books", owner, CreateBooking, verified, 403},

		{"student reviews verified", student, CreateReview, verified, 200},
		{"student reviews draft", student, CreateReview, draft, 403},
		{"student enquires draft", student, CreateEnquiry, draft, 403},

		{"student updates own booking", student, UpdateBooking, booking, 200},
		{"student updates other booking", stranger, UpdateBooking, booking, 403},
		{"owner updates booking", owner, UpdateBooking, booking, 200},
		{"rival updates booking", rival, UpdateBooking, booking, 403},
		{"admin updates booking", admin, UpdateBooking, booking, 403},

		{"student deletes own booking", student, DeleteBooking, booking, 200},
		{"stranger deletes booking", stranger, DeleteBooking, booking, 403},
		{"owner deletes booking", owner, DeleteBooking, booking, 403},

		{"owner lists bookings", owner, ViewHostelBookings, draft, 200},
		{"rival lists bookings", rival, ViewHostelBookings, draft, 403},
		{"owner replies", owner, ReplyEnquiry, verified, 200},
		{"admin replies", admin, ReplyEnquiry, verified, 403},
		{"student lists enquiries", student, ViewHostelEnquiries, verified, 403},

		{"unknown role", models.Identity{ID: 9, Role: "guest"}, ViewHostel, verified, 403},
		{"unknown operation", admin, Operation("launch"), Resource{}, 403},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusOf(Authorize(tt.actor, tt.op, tt.res)); got != tt.want {
				t.Fatalf("Authorize(%s, %s) = %d, want %d", tt.actor.Role, tt.op, got, tt.want)
			}
		})
	}
}

func TestHostelVisible(t *testing.T) {
	h := models.Hostel{ID: 10, OwnerID: owner.ID}
	if HostelVisible(student, h) || HostelVisible(rival, h) {
		t.Fatal("unverified hostel visible to student or rival owner")
	}
	if !HostelVisible(owner, h) || !HostelVisible(admin, h) {
		t.Fatal("unverified hostel hidden from its owner or admin")
	}
	h.IsVerified = true
	if !HostelVisible(student, h) {
		t.Fatal("verified hostel hidden from student")
	}
	if HostelVisible(rival, h) {
		t.Fatal("owners only see their own hostels")
	}
}
