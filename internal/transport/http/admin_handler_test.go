package http

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAdminHandler_Broadcast(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin(t)
	s.register(t, "A", "a@x.com", "100001")
	s.register(t, "B", "b@x.com", "100002")

	rec := s.do(t, http.MethodPost, "/api/admin/email", echo.Map{
		"subject":     "Tour update",
		"message":     "Buses leave at 7.",
		"accountType": "student",
	}, admin)
	report := expectStatus(t, rec, http.StatusOK)["data"].(map[string]any)
	if report["total"] != float64(2) || report["sent"] != float64(2) || report["failed"] != float64(0) {
		t.Fatalf("unexpected report %v", report)
	}
	if s.mailer.count() != 2 {
		t.Fatalf("expected two emails, got %d", s.mailer.count())
	}

	rec = s.do(t, http.MethodPost, "/api/admin/email", echo.Map{"subject": "x"}, admin)
	expectMessage(t, expectStatus(t, rec, http.StatusBadRequest), "message is required")
}

func TestAdminHandler_FacultyAccountLogin(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin(t)

	rec := s.do(t, http.MethodPost, "/api/admin/faculty-accounts", echo.Map{
		"name":      "Dr. Rao",
		"email":     "rao@x.com",
		"studentID": "042",
		"password":  "teach42",
	}, admin)
	user := expectStatus(t, rec, http.StatusCreated)["data"].(map[string]any)
	if user["studentID"] != "FACULTY042" || user["type"] != "faculty" {
		t.Fatalf("unexpected faculty account %v", user)
	}

	rec = s.do(t, http.MethodPost, "/api/auth/login", echo.Map{"studentID": "faculty042", "password": "teach42"}, "")
	expectStatus(t, rec, http.StatusOK)
}

func TestAdminHandler_SelfDemotion(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin(t)
	id := s.account(t, "A0001").ID.Hex()

	rec := s.do(t, http.MethodPut, "/api/admin/users/"+id+"/role", echo.Map{"role": "user"}, admin)
	expectMessage(t, expectStatus(t, rec, http.StatusForbidden), "You cannot change your own role")
}

func TestAdminHandler_ListUsersFilter(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin(t)
	s.register(t, "A", "a@x.com", "100001")

	rec := s.do(t, http.MethodGet, "/api/admin/users?role=admin", nil, admin)
	data := expectStatus(t, rec, http.StatusOK)["data"].(map[string]any)
	if data["total"] != float64(1) {
		t.Fatalf("expected one admin, got %v", data["total"])
	}

	rec = s.do(t, http.MethodGet, "/api/admin/users?type=robot", nil, admin)
	expectMessage(t, expectStatus(t, rec, http.StatusBadRequest), "Invalid account type")
}
