package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialdesk/pkg/apperror"
	"socialdesk/services/auth/internal/entity"
	"socialdesk/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthUseCase is a mock implementation of AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, email, name, password string) (*entity.User, string, error) {
	args := m.Called(email, name, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

func setupTestRouter() (*gin.Engine, *MockAuthUseCase, *AuthHandler) {
	gin.SetMode(gin.TestMode)
	uc := new(MockAuthUseCase)
	return gin.New(), uc, NewAuthHandler(uc)
}

func send(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegister_Success(t *testing.T) {
	router, uc, handler := setupTestRouter()
	router.POST("/register", handler.Register)

	uc.On("Register", "casey@example.com", "Casey", "secret123").
		Return(&entity.User{ID: "user-1", Email: "casey@example.com", Name: "Casey", Role: entity.RoleClient}, "token-1", nil)

	w := send(router, http.MethodPost, "/register", `{"email":"casey@example.com","name":"Casey","password":"secret123"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "token-1", data["token"])
	assert.Equal(t, "client", data["user"].(map[string]interface{})["role"])
	assert.NotContains(t, data["user"], "password")
	uc.AssertExpectations(t)
}

func TestRegister_InvalidBody(t *testing.T) {
	router, uc, handler := setupTestRouter()
	router.POST("/register", handler.Register)

	w := send(router, http.MethodPost, "/register", `{"email":"not-an-email","name":"Casey","password":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(router, http.MethodPost, "/register", `{"email":"casey@example.com","name":"Casey","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	uc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_Conflict(t *testing.T) {
	router, uc, handler := setupTestRouter()
	router.POST("/register", handler.Register)

	uc.On("Register", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, "", apperror.Conflict("User with this email already exists"))

	w := send(router, http.MethodPost, "/register", `{"email":"casey@example.com","name":"Casey","password":"secret123"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with this email already exists", decode(t, w)["message"])
}

func TestLogin_Statuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"success", nil, http.StatusOK},
		{"bad credentials", apperror.Unauthenticated("Invalid credentials"), http.StatusUnauthorized},
		{"deactivated", apperror.Forbidden("Account is deactivated"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, uc, handler := setupTestRouter()
			router.POST("/login", handler.Login)

			if tt.err == nil {
				uc.On("Login", "casey@example.com", "secret123").Return(&entity.User{ID: "user-1"}, "token-1", nil)
			} else {
				uc.On("Login", "casey@example.com", "secret123").Return(nil, "", tt.err)
			}

			w := send(router, http.MethodPost, "/login", `{"email":"casey@example.com","password":"secret123"}`)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.err == nil, decode(t, w)["success"])
		})
	}
}

func TestMe(t *testing.T) {
	router, uc, handler := setupTestRouter()
	router.GET("/me", handler.Me)
	router.GET("/me-auth", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.Me(c)
	})

	w := send(router, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	uc.On("GetUser", "user-1").Return(&entity.User{ID: "user-1", Name: "Casey"}, nil)
	w = send(router, http.MethodGet, "/me-auth", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Casey", decode(t, w)["data"].(map[string]interface{})["name"])
}
