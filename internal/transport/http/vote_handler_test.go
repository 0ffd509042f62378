package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestVoteHandler_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin(t)
	student := s.register(t, "A", "a@x.com", "100001")

	rec := s.do(t, http.MethodPost, "/api/votes", echo.Map{
		"title":   "Next trip",
		"options": []string{"Goa", "Shimla"},
	}, student)
	expectStatus(t, rec, http.StatusForbidden)

	rec = s.do(t, http.MethodPost, "/api/votes", echo.Map{
		"title":    "Next trip",
		"options":  []string{"Goa", "Shimla"},
		"closesAt": time.Now().Add(time.Hour),
	}, admin)
	vote := expectStatus(t, rec, http.StatusCreated)["data"].(map[string]any)
	id := vote["id"].(string)
	options := vote["options"].([]any)
	optionID := options[1].(map[string]any)["id"].(string)

	rec = s.do(t, http.MethodPost, "/api/votes/"+id+"/ballot", echo.Map{"optionId": "nope"}, student)
	expectMessage(t, expectStatus(t, rec, http.StatusBadRequest), "Invalid option")

	rec = s.do(t, http.MethodPost, "/api/votes/"+id+"/ballot", echo.Map{"optionId": optionID}, student)
	view := expectStatus(t, rec, http.StatusOK)["data"].(map[string]any)
	if view["myChoice"] != optionID || view["totalVotes"] != float64(1) {
		t.Fatalf("expected recorded ballot, got %v", view)
	}

	rec = s.do(t, http.MethodPost, "/api/votes/"+id+"/ballot", echo.Map{"optionId": optionID}, student)
	expectMessage(t, expectStatus(t, rec, http.StatusBadRequest), "Already voted")

	rec = s.do(t, http.MethodGet, "/api/votes/"+id, nil, admin)
	view = expectStatus(t, rec, http.StatusOK)["data"].(map[string]any)
	if view["myChoice"] != nil {
		t.Fatalf("expected no choice for admin, got %v", view["myChoice"])
	}

	rec = s.do(t, http.MethodDelete, "/api/votes/"+id, nil, admin)
	expectStatus(t, rec, http.StatusOK)
	rec = s.do(t, http.MethodGet, "/api/votes/"+id, nil, student)
	expectMessage(t, expectStatus(t, rec, http.StatusNotFound), "Vote not found")
}

func TestVoteHandler_RequiresAuth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/votes", nil, "")
	if body := expectStatus(t, rec, http.StatusUnauthorized); body["code"] != CodeNoToken {
		t.Fatalf("expected NO_TOKEN, got %v", body["code"])
	}
}
