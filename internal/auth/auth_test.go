package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Dinnervery/Backend-sub000/internal/customer"
)

func TestPasswordIsHashedBeforeSaving(t *testing.T) {
	repo := customer.NewInMemoryRepository()
	service := NewService(repo)

	password := "Password@123"

	cust, err := service.Register(context.Background(), "Test Customer", "test@example.com", "010-0000-0000", password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := repo.FindByID(context.Background(), cust.ID)
	if err != nil {
		t.Fatalf("customer not found: %v", err)
	}

	if saved.Password == password {
		t.Fatalf("password was stored in plain text")
	}
}

func TestRegisterStartsAtBasicGrade(t *testing.T) {
	repo := customer.NewInMemoryRepository()
	service := NewService(repo)

	cust, err := service.Register(context.Background(), "Test Customer", "basic@example.com", "", "Password@123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cust.Grade != customer.GradeBasic {
		t.Errorf("grade: got %s, want BASIC", cust.Grade)
	}
	if cust.OrderCount != 0 {
		t.Errorf("order count: got %d, want 0", cust.OrderCount)
	}
}

// failingLookupRepo breaks the email lookup while leaving the
// rest of the store working.
type failingLookupRepo struct {
	customer.Repository
}

func (failingLookupRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, errors.New("store unavailable")
}

func TestRegisterSurfacesLookupFailure(t *testing.T) {
	service := NewService(failingLookupRepo{customer.NewInMemoryRepository()})

	_, err := service.Register(context.Background(), "Test Customer", "test@example.com", "", "Password@123")
	if err == nil {
		t.Fatal("expected the lookup failure to surface")
	}
	if errors.Is(err, ErrEmailTaken) {
		t.Fatal("store failure must not read as a taken email")
	}
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handler := NewHandler(NewService(customer.NewInMemoryRepository()))
	r.POST("/auth/register", handler.Register)

	return r
}

func TestRegisterSuccess(t *testing.T) {
	r := setupTestRouter()

	payload := map[string]string{
		"name":     "Test Customer",
		"email":    "test@example.com",
		"password": "Password@123",
	}

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	r := setupTestRouter()

	payload := map[string]string{
		"email": "test@example.com",
	}

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := setupTestRouter()

	payload := map[string]string{
		"name":     "Test Customer",
		"email":    "test@example.com",
		"password": "Password@123",
	}

	body, _ := json.Marshal(payload)

	req1 := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req1.Header.Set("Content-Type", "application/json")
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, req1)

	req2 := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req2.Header.Set("Content-Type", "application/json")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)

	if w2.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w2.Code)
	}
}
