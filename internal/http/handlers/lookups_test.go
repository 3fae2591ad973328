package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/geocoder89/standupbot/internal/domain/standup"
	"github.com/geocoder89/standupbot/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

func TestBlockerStatusLabelLookup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/lookups/blocker-statuses/:status", handlers.BlockerStatusLabelLookup)

	w := doJSON(r, http.MethodGet, "/lookups/blocker-statuses/critical", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var label standup.StatusLabel
	if err := json.Unmarshal(w.Body.Bytes(), &label); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if label.Value != standup.BlockerCritical || label.Color != "danger" {
		t.Fatalf("unexpected label: %+v", label)
	}

	if w := doJSON(r, http.MethodGet, "/lookups/blocker-statuses/Blocked", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown status, got %d", w.Code)
	}
}
