package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnkhanh/hostel-server/config"
	"github.com/vnkhanh/hostel-server/middleware"
	"github.com/vnkhanh/hostel-server/models"
	"github.com/vnkhanh/hostel-server/utils"
)

type testServer struct {
	t *testing.T
	r *gin.Engine
}

type account struct {
	ID       uint
	Email    string
	Password string
	Role     models.Role
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.PasswordCost = bcrypt.MinCost

	dsn := filepath.Join(t.TempDir(), "hostelgo.db") + "?_pragma=busy_timeout(5000)"
	db, err := config.Open("sqlite", dsn, "silent")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		sqlDB.Close()
	})

	r := gin.New()
	SetupRoutes(r, config.Settings{
		AuthRatePerMin: 100000,
		AuthRateBurst:  100000,
		ExportDir:      t.TempDir(),
	})
	return &testServer{t: t, r: r}
}

func (s *testServer) do(method, path string, body interface{}, as *account) *httptest.ResponseRecorder {
	s.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set(middleware.HeaderEmail, as.Email)
		req.Header.Set(middleware.HeaderPassword, as.Password)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

// expect fails the test unless the response has the wanted status.
func (s *testServer) expect(w *httptest.ResponseRecorder, status int) {
	s.t.Helper()
	if w.Code != status {
		s.t.Fatalf("expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
}

func (s *testServer) signup(name string, role models.Role) account {
	s.t.Helper()
	acc := account{
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "secret-" + name,
		Role:     role,
	}
	w := s.do(http.MethodPost, "/auth/signup", gin.H{
		"name":     name,
		"email":    acc.Email,
		"password": acc.Password,
		"role":     role,
	}, nil)
	s.expect(w, http.StatusCreated)
	out := decode[struct {
		User models.Identity `json:"user"`
	}](s.t, w)
	acc.ID = out.User.ID
	return acc
}

func (s *testServer) createHostel(owner account, name, city string, rent int, facilities string) models.Hostel {
	s.t.Helper()
	w := s.do(http.MethodPost, "/hostels", gin.H{
		"name":       name,
		"address":    "1 Main Road",
		"city":       city,
		"rent":       rent,
		"facilities": facilities,
	}, &owner)
	s.expect(w, http.StatusCreated)
	return decode[struct {
		Hostel models.Hostel `json:"hostel"`
	}](s.t, w).Hostel
}

func (s *testServer) verify(admin account, hostelID uint) {
	s.t.Helper()
	s.expect(s.do(http.MethodPut, fmt.Sprintf("/admin/verify-hostel/%d", hostelID), nil, &admin), http.StatusOK)
}

func (s *testServer) listHostels(path string, as account) []models.Hostel {
	s.t.Helper()
	w := s.do(http.MethodGet, path, nil, &as)
	s.expect(w, http.StatusOK)
	return decode[struct {
		Hostels []models.Hostel `json:"hostels"`
	}](s.t, w).Hostels
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[struct {
		Error string `json:"error"`
	}](t, w).Error
}

func hostelIDs(hs []models.Hostel) map[uint]bool {
	ids := make(map[uint]bool, len(hs))
	for _, h := range hs {
		ids[h.ID] = true
	}
	return ids
}
