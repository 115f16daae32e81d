package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuilderWritesStatusBodyAndHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusCreated).
		Header("X-Custom", "yes").
		BodyHTML(`<div class="success">done</div>`).
		Write(rec)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if got := rec.Header().Get("X-Custom"); got != "yes" {
		t.Errorf("X-Custom = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if !strings.Contains(rec.Body.String(), "done") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestBuilderEncodesTriggers(t *testing.T) {
	rec := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerChanged("expense", "created", 2025, 3).
		TriggerFormReset().
		TriggerSuccessNotification("saved").
		Write(rec)

	header := rec.Header().Get("HX-Trigger")
	if header == "" {
		t.Fatal("HX-Trigger header missing")
	}

	var triggers map[string]json.RawMessage
	if err := json.Unmarshal([]byte(header), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	for _, name := range []string{"expense:created", "form:reset", "show-notification"} {
		if _, ok := triggers[name]; !ok {
			t.Errorf("missing trigger %q in %s", name, header)
		}
	}

	var change struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}
	if err := json.Unmarshal(triggers["expense:created"], &change); err != nil {
		t.Fatalf("expense:created payload: %v", err)
	}
	if change.Year != 2025 || change.Month != 3 {
		t.Errorf("expense:created = %+v", change)
	}
}

func TestNoTriggerHeaderWithoutTriggers(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHTMXResponse().BodyString("plain").Write(rec)

	if got := rec.Header().Get("HX-Trigger"); got != "" {
		t.Errorf("unexpected HX-Trigger header %q", got)
	}
}

func TestErrorResponseEscapesHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	UnprocessableEntityError(`bad <script>alert(1)</script>`).Write(rec)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Errorf("body not escaped: %q", body)
	}
	if !strings.Contains(body, `class="error"`) {
		t.Errorf("body missing error wrapper: %q", body)
	}
}
