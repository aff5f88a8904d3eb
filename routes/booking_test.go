package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/models"
)

func bookingFrom(t *testing.T, s *testServer, method, path string, body interface{}, as account, status int) models.Booking {
	t.Helper()
	w := s.do(method, path, body, &as)
	s.expect(w, status)
	return decode[struct {
		Booking models.Booking `json:"booking"`
	}](t, w).Booking
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.signup("admin", models.RoleAdmin)
	owner := s.signup("owner1", models.RoleOwner)
	other := s.signup("owner2", models.RoleOwner)
	student := s.signup("student", models.RoleStudent)
	classmate := s.signup("classmate", models.RoleStudent)

	h := s.createHostel(owner, "Iqbal Hall", "Lahore", 12000, "wifi")

	w := s.do(http.MethodPost, "/bookings", gin.H{"hostel_id": h.ID}, &student)
	s.expect(w, http.StatusForbidden)
	s.expect(s.do(http.MethodPost, "/bookings", gin.H{"hostel_id": 9999}, &student), http.StatusNotFound)
	s.expect(s.do(http.MethodPost, "/bookings", gin.H{}, &student), http.StatusBadRequest)

	s.verify(admin, h.ID)
	s.expect(s.do(http.MethodPost, "/bookings", gin.H{"hostel_id": h.ID}, &owner), http.StatusForbidden)
	s.expect(s.do(http.MethodPost, "/bookings", gin.H{"hostel_id": h.ID}, &admin), http.StatusForbidden)

	b := bookingFrom(t, s, http.MethodPost, "/bookings", gin.H{"hostel_id": h.ID}, student, http.StatusCreated)
	if b.Status != models.BookingPending || b.StudentID != student.ID || b.HostelID != h.ID {
		t.Fatalf("unexpected booking %+v", b)
	}

	w = s.do(http.MethodPost, "/bookings", gin.H{"hostel_id": h.ID}, &student)
	s.expect(w, http.StatusBadRequest)
	var open int64
	config.DB.Model(&models.Booking{}).Where("hostel_id = ? AND student_id = ?", h.ID, student.ID).Count(&open)
	if open != 1 {
		t.Fatalf("duplicate booking created, have %d", open)
	}

	path := fmt.Sprintf("/bookings/%d", b.ID)

	// role restrictions
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "confirmed"}, &student), http.StatusForbidden)
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "confirmed"}, &classmate), http.StatusForbidden)
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "pending"}, &owner), http.StatusForbidden)
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "confirmed"}, &other), http.StatusForbidden)
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "cancelled"}, &classmate), http.StatusForbidden)
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "done"}, &owner), http.StatusBadRequest)
	s.expect(s.do(http.MethodPut, "/bookings/9999", gin.H{"status": "cancelled"}, &owner), http.StatusNotFound)

	confirmed := bookingFrom(t, s, http.MethodPut, path, gin.H{"status": "confirmed"}, owner, http.StatusOK)
	if confirmed.Status != models.BookingConfirmed {
		t.Fatalf("status = %s, want confirmed", confirmed.Status)
	}

	// admin has no route to alter it
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "cancelled"}, &admin), http.StatusForbidden)
	s.expect(s.do(http.MethodDelete, path, nil, &admin), http.StatusForbidden)
	// students cannot cancel a confirmed booking
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "cancelled"}, &student), http.StatusBadRequest)
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "confirmed"}, &owner), http.StatusBadRequest)

	var stored models.Booking
	config.DB.First(&stored, b.ID)
	if stored.Status != models.BookingConfirmed {
		t.Fatalf("rejected transitions mutated booking: %s", stored.Status)
	}

	cancelled := bookingFrom(t, s, http.MethodPut, path, gin.H{"status": "cancelled"}, owner, http.StatusOK)
	if cancelled.Status != models.BookingCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "confirmed"}, &owner), http.StatusBadRequest)
	s.expect(s.do(http.MethodPut, path, gin.H{"status": "cancelled"}, &owner), http.StatusBadRequest)

	// a cancelled booking no longer blocks a new one
	again := bookingFrom(t, s, http.MethodPost, "/bookings", gin.H{"hostel_id": h.ID}, student, http.StatusCreated)
	againPath := fmt.Sprintf("/bookings/%d", again.ID)
	self := bookingFrom(t, s, http.MethodPut, againPath, gin.H{"status": "cancelled"}, student, http.StatusOK)
	if self.Status != models.BookingCancelled {
		t.Fatalf("student cancel: %s", self.Status)
	}

	s.expect(s.do(http.MethodDelete, againPath, nil, &classmate), http.StatusForbidden)
	s.expect(s.do(http.MethodDelete, againPath, nil, &owner), http.StatusForbidden)
	s.expect(s.do(http.MethodDelete, againPath, nil, &student), http.StatusOK)
	s.expect(s.do(http.MethodDelete, againPath, nil, &student), http.StatusNotFound)
}

func TestBookingListings(t *testing.T) {
	s := newTestServer(t)
	admin := s.signup("admin", models.RoleAdmin)
	owner := s.signup("owner1", models.RoleOwner)
	other := s.signup("owner2", models.RoleOwner)
	student := s.signup("student", models.RoleStudent)

	h := s.createHostel(owner, "Iqbal Hall", "Lahore", 12000, "wifi")
	s.verify(admin, h.ID)
	s.expect(s.do(http.MethodPost, "/bookings", gin.H{"hostel_id": h.ID}, &student), http.StatusCreated)

	w := s.do(http.MethodGet, "/bookings/student", nil, &student)
	s.expect(w, http.StatusOK)
	mine := decode[struct {
		Bookings []models.Booking `json:"bookings"`
	}](t, w).Bookings
	if len(mine) != 1 || mine[0].Hostel == nil || mine[0].Hostel.Owner == nil || mine[0].Hostel.Owner.ID != owner.ID {
		t.Fatalf("expected booking with hostel and owner, got %+v", mine)
	}

	hostelPath := fmt.Sprintf("/bookings/hostel/%d", h.ID)
	w = s.do(http.MethodGet, hostelPath, nil, &owner)
	s.expect(w, http.StatusOK)
	forHostel := decode[struct {
		Bookings []models.Booking `json:"bookings"`
	}](t, w).Bookings
	if len(forHostel) != 1 || forHostel[0].Student == nil || forHostel[0].Student.Name != "student" {
		t.Fatalf("expected booking with student, got %+v", forHostel)
	}

	s.expect(s.do(http.MethodGet, hostelPath, nil, &other), http.StatusForbidden)
	s.expect(s.do(http.MethodGet, hostelPath, nil, &student), http.StatusForbidden)
	s.expect(s.do(http.MethodGet, "/bookings/hostel/9999", nil, &owner), http.StatusNotFound)
	s.expect(s.do(http.MethodGet, "/bookings/student", nil, &owner), http.StatusForbidden)
}
