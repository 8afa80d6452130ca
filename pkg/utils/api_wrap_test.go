package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err      error
		code     int
		category ErrorCategory
	}{
		{ErrInvalidCredentials, http.StatusUnauthorized, CategoryAuth},
		{fmt.Errorf("wrapped: %w", ErrEventFull), http.StatusConflict, CategoryApp},
		{&GeoError{DistanceMeters: 500, RadiusMeters: 200}, http.StatusUnprocessableEntity, CategoryGeolocation},
		{ErrForbidden, http.StatusForbidden, CategoryPermission},
		{ErrSpotReportedRecently, http.StatusConflict, CategoryApp},
		{fmt.Errorf("%w: timeout", ErrDatabaseError), http.StatusInternalServerError, CategoryStorage},
		{ErrStorageDisabled, http.StatusServiceUnavailable, CategoryStorage},
		{errors.New("boom"), http.StatusInternalServerError, CategoryApp},
	}
	for _, tt := range tests {
		code, cat := Classify(tt.err)
		if code != tt.code || cat != tt.category {
			t.Errorf("Classify(%v) = (%d, %s), want (%d, %s)", tt.err, code, cat, tt.code, tt.category)
		}
	}
}

func runHandleServiceError(t *testing.T, err error) (int, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("trace_id", "t-1")

	HandleServiceError(c, err)

	var body APIResponse
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &body); decodeErr != nil {
		t.Fatalf("decode body: %v", decodeErr)
	}
	return w.Code, body
}

func TestHandleServiceError_HidesInternalCause(t *testing.T) {
	code, body := runHandleServiceError(t, fmt.Errorf("%w: pq: connection refused", ErrDatabaseError))

	if code != http.StatusInternalServerError {
		t.Errorf("code = %d", code)
	}
	if body.Message != "Internal server error" {
		t.Errorf("message = %q, leaked cause", body.Message)
	}
	if body.Status != "error" || body.TraceID != "t-1" {
		t.Errorf("unexpected envelope %+v", body)
	}
}

func TestHandleServiceError_GeoDetails(t *testing.T) {
	code, body := runHandleServiceError(t, &GeoError{DistanceMeters: 512, RadiusMeters: 200})

	if code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d", code)
	}
	data, ok := body.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %#v, want distance details", body.Data)
	}
	if data["distance_m"].(float64) != 512 || data["radius_m"].(float64) != 200 {
		t.Errorf("data = %v", data)
	}
	if body.Message != "too far from location: 512m away, limit is 200m" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestRespondPaged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondPaged(c, []int{1, 2}, Pagination{Page: 1, Limit: 2}, 5, "ok")

	var body APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Pagination == nil || body.Pagination.TotalPages != 3 || body.Pagination.Total != 5 {
		t.Errorf("pagination = %+v", body.Pagination)
	}
	if body.Status != "success" {
		t.Errorf("status = %q", body.Status)
	}
}
