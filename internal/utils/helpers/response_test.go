package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorRedirect(rec, http.StatusBadRequest, "bad token", "/reset_password")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("код %d", rec.Code)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "bad token" || resp.Redirect != "/reset_password" || resp.Data != nil {
		t.Fatalf("неожиданный ответ: %+v", resp)
	}
}
