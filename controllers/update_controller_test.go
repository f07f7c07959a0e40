package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"update-keeper/internal/config"
	"update-keeper/internal/models"
	"update-keeper/services"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, updateURL string) (*gin.Engine, *services.UpdateService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfgPath := filepath.Join(t.TempDir(), "updater_config.json")
	cfg := &config.UpdaterConfig{
		AppName:        "DemoApp",
		CurrentVersion: "1.0.0",
		UpdateURL:      updateURL,
	}
	svc, err := services.NewUpdateService(cfg, cfgPath, t.TempDir())
	if err != nil {
		t.Fatalf("NewUpdateService failed: %v", err)
	}
	t.Cleanup(svc.Close)

	router := gin.New()
	NewAPIController(svc).RegisterRoutes(router)
	NewUpdateController(svc).RegisterRoutes(router)
	return router, svc
}

func doRequest(t *testing.T, router *gin.Engine, method, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)

	body := map[string]interface{}{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response %q is not JSON: %v", w.Body.String(), err)
	}
	return w.Code, body
}

// drainUntilKind consumes service events until the given kind arrives, so
// the worker spawned by an accepted trigger has finished.
func drainUntilKind(t *testing.T, svc *services.UpdateService, kind models.EventKind) {
	t.Helper()
	for {
		select {
		case ev := <-svc.Events():
			if ev.Kind == kind {
				return
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for update event")
		}
	}
}

func TestCheckEndpointAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"version":"2.0.0","download_url":"https://x/pkg.zip"}`)
	}))
	defer server.Close()

	router, svc := newTestRouter(t, server.URL)
	code, body := doRequest(t, router, http.MethodPost, "/updater/api/v1/check")
	if code != 202 {
		t.Fatalf("POST /check = %d, want 202", code)
	}
	if body["status"] != "accepted" {
		t.Errorf("body = %v, want status accepted", body)
	}
	drainUntilKind(t, svc, models.EventCheckResult)

	code, status := doRequest(t, router, http.MethodGet, "/updater/api/v1/status")
	if code != 200 {
		t.Fatalf("GET /status = %d, want 200", code)
	}
	if status["state"] != string(models.StateUpdateAvailable) {
		t.Errorf("state = %v, want %q", status["state"], models.StateUpdateAvailable)
	}
	if status["latestVersion"] != "2.0.0" {
		t.Errorf("latestVersion = %v, want 2.0.0", status["latestVersion"])
	}
}

func TestCheckEndpointBusy(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, `{"version":"1.0.0","download_url":"https://x/pkg.zip"}`)
	}))
	defer server.Close()
	defer close(release)

	router, _ := newTestRouter(t, server.URL)
	if code, _ := doRequest(t, router, http.MethodPost, "/updater/api/v1/check"); code != 202 {
		t.Fatalf("first POST /check = %d, want 202", code)
	}

	code, body := doRequest(t, router, http.MethodPost, "/updater/api/v1/check")
	if code != 409 {
		t.Fatalf("POST /check while checking = %d, want 409", code)
	}
	if body["code"] != "updater.busy" {
		t.Errorf("code = %v, want updater.busy", body["code"])
	}

	code, body = doRequest(t, router, http.MethodPost, "/updater/api/v1/update")
	if code != 409 {
		t.Fatalf("POST /update while checking = %d, want 409", code)
	}
	if body["code"] != "updater.busy" {
		t.Errorf("code = %v, want updater.busy", body["code"])
	}
}

func TestUpdateEndpointNoUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"version":"1.0.0","download_url":"https://x/pkg.zip"}`)
	}))
	defer server.Close()

	router, svc := newTestRouter(t, server.URL)
	if code, _ := doRequest(t, router, http.MethodPost, "/updater/api/v1/check"); code != 202 {
		t.Fatal("check trigger not accepted")
	}
	drainUntilKind(t, svc, models.EventCheckResult)

	code, body := doRequest(t, router, http.MethodPost, "/updater/api/v1/update")
	if code != 409 {
		t.Fatalf("POST /update when up to date = %d, want 409", code)
	}
	if body["code"] != "updater.no_update" {
		t.Errorf("code = %v, want updater.no_update", body["code"])
	}
}

func TestHealthzEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, "http://127.0.0.1:1/latest.json")
	code, body := doRequest(t, router, http.MethodGet, "/healthz")
	if code != 200 {
		t.Fatalf("GET /healthz = %d, want 200", code)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}
