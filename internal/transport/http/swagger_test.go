package http

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestRegisterSwagger_ServesJSON(t *testing.T) {
	dir := t.TempDir()
	doc := "swagger: \"2.0\"\ninfo:\n  title: Test\n  version: \"1\"\npaths: {}\n"
	if err := os.WriteFile(filepath.Join(dir, "swagger.yaml"), []byte(doc), 0o600); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	e := NewRouter(RouterConfig{})
	RegisterSwagger(e, dir)

	rec := serve(e, http.MethodGet, "/swagger/doc.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON document: %v", err)
	}
	if body["swagger"] != "2.0" {
		t.Fatalf("unexpected document %v", body)
	}
}

func TestRegisterSwagger_MissingDocument(t *testing.T) {
	e := NewRouter(RouterConfig{})
	RegisterSwagger(e, t.TempDir())

	rec := serve(e, http.MethodGet, "/swagger/doc.json")
	expectMessage(t, expectStatus(t, rec, http.StatusInternalServerError), "Unable to load API documentation")
}
