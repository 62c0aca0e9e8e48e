package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = validation.RegisterCustomRules(v)
	}
}

type stubResolver map[string]*auth.Identity

func (s stubResolver) ResolveSession(token string) *auth.Identity { return s[token] }

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newGuardedRouter() *gin.Engine {
	resolver := stubResolver{
		"teacher-token": {ID: 7, Email: "t@school.edu", Role: models.RoleTeacher},
		"student-token": {ID: 9, Email: "s@school.edu", Role: models.RoleStudent},
	}
	m := NewAuthMiddleware(resolver, "auth-token")

	r := gin.New()
	group := r.Group("/teacher", m.SessionAuth(), m.RoleRequired(models.RoleTeacher, models.RoleAdmin))
	group.GET("/me", func(c *gin.Context) {
		identity := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": identity.ID, "email": c.GetString(ContextEmail)})
	})
	return r
}

func TestSessionAuth(t *testing.T) {
	r := newGuardedRouter()

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
		code   dto.ErrorCode
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"unknown cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "auth-token", Value: "nope"}) }, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Token teacher-token") }, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"wrong role", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "auth-token", Value: "student-token"}) }, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "auth-token", Value: "teacher-token"}) }, http.StatusOK, ""},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer teacher-token") }, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/teacher/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				resp := decodeError(t, w)
				assert.False(t, resp.Success)
				assert.Equal(t, tt.code, resp.Code)
			}
		})
	}
}

func TestCurrentIdentity_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentIdentity(c))
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"schedule conflict", apperrors.NewScheduleConflictError(map[string]interface{}{"conflictingEntryId": 3}), http.StatusConflict, dto.ErrorCodeScheduleConflict, "teacher already has a class scheduled at this time"},
		{"invalid credentials", &apperrors.CustomError{Err: apperrors.ErrInvalidCredentials, Message: "invalid credentials", Code: apperrors.CodeInvalidCredentials}, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "invalid credentials"},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
		{"not teaching", apperrors.ErrNotTeaching, http.StatusForbidden, dto.ErrorCodeForbidden, apperrors.ErrNotTeaching.Message},
		{"time range", apperrors.ErrInvalidTimeRange, http.StatusBadRequest, dto.ErrorCodeInvalidTimeRange, "end time must be after start time"},
		{"grade level", apperrors.ErrInvalidGradeLevel, http.StatusBadRequest, dto.ErrorCodeInvalidGradeLevel, apperrors.ErrInvalidGradeLevel.Message},
		{"in use", apperrors.NewResourceInUseError("class is still referenced", nil), http.StatusBadRequest, dto.ErrorCodeResourceInUse, "class is still referenced"},
		{"duplicate", apperrors.ErrDuplicateEnrollment, http.StatusConflict, dto.ErrorCodeDuplicateEnrollment, apperrors.ErrDuplicateEnrollment.Message},
		{"not found", apperrors.NewResourceNotFoundError("class not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "class not found"},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.NewResourceNotFoundError("grade not found")), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "grade not found"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.message, resp.Error)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestHandleAPIError_FieldAndDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleAPIError(c, apperrors.NewFieldValidationError("dayOfWeek", "day of week must be Monday through Sunday"))

	resp := decodeError(t, w)
	assert.Equal(t, "dayOfWeek", resp.Field)
	assert.Nil(t, resp.Details)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleAPIError(c, apperrors.NewScheduleConflictError(map[string]interface{}{"className": "10-A"}))

	resp = decodeError(t, w)
	details, ok := resp.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "10-A", details["className"])
}

func TestHandleValidationError(t *testing.T) {
	r := gin.New()
	r.POST("/entries", func(c *gin.Context) {
		var req dto.TimetableEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"classId":1,"subjectId":2,"dayOfWeek":"Funday","startTime":"09:00","endTime":"10:00"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Code)
	assert.Equal(t, "dayOfWeek", resp.Field)

	w = post(`{"classId":1,"subjectId":2,"dayOfWeek":"Monday","startTime":"9am","endTime":"10:00"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "startTime", decodeError(t, w).Field)

	w = post(`{"classId":"one"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = post(`{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Malformed JSON body", decodeError(t, w).Error)

	w = post(`{"classId":1,"subjectId":2,"dayOfWeek":"monday","startTime":"09:00","endTime":"10:00"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestLogger(t *testing.T) {
	var buf strings.Builder
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"path":"/ping"`)
	assert.Contains(t, buf.String(), `"status":200`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
