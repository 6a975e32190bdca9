package daemon

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

func testTree() *chi.Mux {
	root := &cobra.Command{Use: "racman"}
	echo := &cobra.Command{
		Use:  "echo",
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("echo: %s\n", strings.Join(args, " "))
		},
	}
	root.AddCommand(echo)

	router := chi.NewRouter()
	createCommandTree(router, "", root)
	return router
}

func TestHelpEndpoint(t *testing.T) {
	router := testTree()

	req := httptest.NewRequest(http.MethodGet, "/racman/echo", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Usage:") {
		t.Errorf("expected help text, got %q", rec.Body.String())
	}
}

func TestCommandEndpointRunsWithBodyArgs(t *testing.T) {
	router := testTree()

	req := httptest.NewRequest(http.MethodPost, "/racman/echo", strings.NewReader("one\ntwo\n"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "echo: one two") {
		t.Errorf("expected command output, got %q", rec.Body.String())
	}
}

func TestRequireTokenRejectsMissingBearer(t *testing.T) {
	handler := requireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request without a token must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/racman", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireTokenRejectsGarbage(t *testing.T) {
	handler := requireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request with a bad token must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/racman", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
