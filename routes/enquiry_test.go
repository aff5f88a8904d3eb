package routes

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/hostel-server/models"
)

type enquiryView struct {
	ID            uint                 `json:"id"`
	HostelID      uint                 `json:"hostel_id"`
	Type          models.EnquiryType   `json:"type"`
	ScheduledDate *time.Time           `json:"scheduled_date"`
	Reply         *string              `json:"reply"`
	Status        models.EnquiryStatus `json:"status"`
	RepliedAt     *time.Time           `json:"replied_at"`
}

func TestScheduleVisitRequiresDate(t *testing.T) {
	s := newTestServer(t)
	admin := s.signup("admin", models.RoleAdmin)
	owner := s.signup("owner1", models.RoleOwner)
	student := s.signup("student", models.RoleStudent)
	h := s.createHostel(owner, "Iqbal Hall", "Lahore", 12000, "wifi")
	s.verify(admin, h.ID)

	w := s.do(http.MethodPost, "/enquiries", gin.H{"hostel_id": h.ID, "type": "schedule_visit"}, &student)
	s.expect(w, http.StatusBadRequest)
	if msg := errorMessage(t, w); !strings.Contains(msg, "scheduled_date") {
		t.Fatalf("message %q does not cite scheduled_date", msg)
	}

	w = s.do(http.MethodPost, "/enquiries", gin.H{
		"hostel_id": h.ID, "type": "schedule_visit", "scheduled_date": "next week",
	}, &student)
	s.expect(w, http.StatusBadRequest)

	w = s.do(http.MethodPost, "/enquiries", gin.H{
		"hostel_id": h.ID, "type": "schedule_visit", "scheduled_date": "2026-11-02",
	}, &student)
	s.expect(w, http.StatusCreated)
	e := decode[struct {
		Enquiry enquiryView `json:"enquiry"`
	}](t, w).Enquiry
	if e.Status != models.EnquiryPending || e.ScheduledDate == nil || e.ScheduledDate.Format("2006-01-02") != "2026-11-02" {
		t.Fatalf("unexpected enquiry %+v", e)
	}

	s.expect(s.do(http.MethodPost, "/enquiries", gin.H{"hostel_id": h.ID, "type": "complaint"}, &student), http.StatusBadRequest)
}

func TestEnquiryReplyFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.signup("admin", models.RoleAdmin)
	owner := s.signup("owner1", models.RoleOwner)
	other := s.signup("owner2", models.RoleOwner)
	student := s.signup("student", models.RoleStudent)

	unverified := s.createHostel(owner, "Draft", "Lahore", 9000, "")
	h := s.createHostel(owner, "Iqbal Hall", "Lahore", 12000, "wifi")
	s.verify(admin, h.ID)

	s.expect(s.do(http.MethodPost, "/enquiries", gin.H{"hostel_id": unverified.ID, "type": "enquiry"}, &student), http.StatusForbidden)
	s.expect(s.do(http.MethodPost, "/enquiries", gin.H{"hostel_id": h.ID, "type": "enquiry"}, &owner), http.StatusForbidden)
	s.expect(s.do(http.MethodPost, "/enquiries", gin.H{"hostel_id": 9999, "type": "enquiry"}, &student), http.StatusNotFound)

	w := s.do(http.MethodPost, "/enquiries", gin.H{"hostel_id": h.ID, "type": "enquiry", "message": "Is there parking?"}, &student)
	s.expect(w, http.StatusCreated)
	e := decode[struct {
		Enquiry enquiryView `json:"enquiry"`
	}](t, w).Enquiry
	replyPath := fmt.Sprintf("/enquiries/%d/reply", e.ID)

	s.expect(s.do(http.MethodPut, replyPath, gin.H{"reply": "   "}, &owner), http.StatusBadRequest)
	s.expect(s.do(http.MethodPut, replyPath, gin.H{"reply": "Yes"}, &other), http.StatusForbidden)
	s.expect(s.do(http.MethodPut, replyPath, gin.H{"reply": "Yes"}, &student), http.StatusForbidden)
	s.expect(s.do(http.MethodPut, replyPath, gin.H{"reply": "Yes"}, &admin), http.StatusForbidden)
	s.expect(s.do(http.MethodPut, "/enquiries/9999/reply", gin.H{"reply": "Yes"}, &owner), http.StatusNotFound)

	w = s.do(http.MethodPut, replyPath, gin.H{"reply": "Yes, two spots"}, &owner)
	s.expect(w, http.StatusOK)
	first := decode[struct {
		Enquiry enquiryView `json:"enquiry"`
	}](t, w).Enquiry
	if first.Status != models.EnquiryResponded || first.RepliedAt == nil || first.Reply == nil || *first.Reply != "Yes, two spots" {
		t.Fatalf("unexpected reply result %+v", first)
	}

	// a second reply overwrites the first
	w = s.do(http.MethodPut, replyPath, gin.H{"reply": "Only one spot left"}, &owner)
	s.expect(w, http.StatusOK)

	w = s.do(http.MethodGet, "/enquiries/student", nil, &student)
	s.expect(w, http.StatusOK)
	mine := decode[struct {
		Enquiries []enquiryView `json:"enquiries"`
	}](t, w).Enquiries
	if len(mine) != 1 || mine[0].Reply == nil || *mine[0].Reply != "Only one spot left" || mine[0].Status != models.EnquiryResponded {
		t.Fatalf("unexpected student enquiries %+v", mine)
	}

	w = s.do(http.MethodGet, "/enquiries/owner", nil, &owner)
	s.expect(w, http.StatusOK)
	if n := len(decode[struct {
		Enquiries []enquiryView `json:"enquiries"`
	}](t, w).Enquiries); n != 1 {
		t.Fatalf("owner enquiries = %d, want 1", n)
	}
	w = s.do(http.MethodGet, "/enquiries/owner", nil, &other)
	s.expect(w, http.StatusOK)
	if n := len(decode[struct {
		Enquiries []enquiryView `json:"enquiries"`
	}](t, w).Enquiries); n != 0 {
		t.Fatalf("other owner enquiries = %d, want 0", n)
	}

	hostelPath := fmt.Sprintf("/enquiries/hostel/%d", h.ID)
	s.expect(s.do(http.MethodGet, hostelPath, nil, &owner), http.StatusOK)
	s.expect(s.do(http.MethodGet, hostelPath, nil, &other), http.StatusForbidden)
	s.expect(s.do(http.MethodGet, "/enquiries/student", nil, &owner), http.StatusForbidden)
}
