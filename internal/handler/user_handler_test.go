package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"acquisition/internal/auth"
	apperrors "acquisition/internal/errors"
	"acquisition/internal/model"
	"acquisition/internal/service"
)

func userClaims(id uint, role string) *auth.Claims {
	return &auth.Claims{UserID: id, Email: "caller@ex.com", Role: role}
}

// newUserContext builds a context for /users/:id style requests. claims may
// be nil to simulate an anonymous caller.
func newUserContext(t *testing.T, method, body string, id string, claims *auth.Claims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := newTestEcho()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/users/"+id, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, "/users/"+id, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	if claims != nil {
		c.Set("user", claims)
	}
	return c, rec
}

func assertHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, status, httpErr.Code)
	assert.Equal(t, code, httpErr.Message.(apperrors.ErrorResponse).Code)
}

func TestUserHandler_ListUsers(t *testing.T) {
	t.Run("non-admin is forbidden", func(t *testing.T) {
		mockUsers := new(MockUserService)
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("user", userClaims(5, model.RoleUser))

		err := NewUserHandler(mockUsers).ListUsers(c)

		assertHTTPError(t, err, http.StatusForbidden, "FORBIDDEN")
		mockUsers.AssertNotCalled(t, "List")
	})

	t.Run("admin gets the listing with a count", func(t *testing.T) {
		mockUsers := new(MockUserService)
		mockUsers.On("List", mock.Anything).Return([]model.User{
			{ID: 1, Email: "a@ex.com"},
			{ID: 2, Email: "b@ex.com"},
		}, nil)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user", userClaims(9, model.RoleAdmin))

		err := NewUserHandler(mockUsers).ListUsers(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"count":2`)
		mockUsers.AssertExpectations(t)
	})
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Run("anonymous is unauthorized", func(t *testing.T) {
		c, _ := newUserContext(t, http.MethodGet, "", "5", nil)
		err := NewUserHandler(new(MockUserService)).GetUser(c)
		assertHTTPError(t, err, http.StatusUnauthorized, "UNAUTHORIZED")
	})

	t.Run("bad id is rejected", func(t *testing.T) {
		c, _ := newUserContext(t, http.MethodGet, "", "abc", userClaims(5, model.RoleUser))
		err := NewUserHandler(new(MockUserService)).GetUser(c)
		assertHTTPError(t, err, http.StatusBadRequest, "VALIDATION_FAILED")
	})

	t.Run("self read succeeds", func(t *testing.T) {
		mockUsers := new(MockUserService)
		mockUsers.On("GetByID", mock.Anything, uint(5)).
			Return(&model.User{ID: 5, Email: "caller@ex.com"}, nil)

		c, rec := newUserContext(t, http.MethodGet, "", "5", userClaims(5, model.RoleUser))
		err := NewUserHandler(mockUsers).GetUser(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-admin reading another user is forbidden", func(t *testing.T) {
		mockUsers := new(MockUserService)
		c, _ := newUserContext(t, http.MethodGet, "", "7", userClaims(5, model.RoleUser))
		err := NewUserHandler(mockUsers).GetUser(c)
		assertHTTPError(t, err, http.StatusForbidden, "FORBIDDEN")
		mockUsers.AssertNotCalled(t, "GetByID")
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		mockUsers := new(MockUserService)
		mockUsers.On("GetByID", mock.Anything, uint(5)).Return(nil, apperrors.ErrUserNotFound)

		c, _ := newUserContext(t, http.MethodGet, "", "5", userClaims(9, model.RoleAdmin))
		err := NewUserHandler(mockUsers).GetUser(c)
		assertHTTPError(t, err, http.StatusNotFound, "USER_NOT_FOUND")
	})
}

func TestUserHandler_UpdateUser(t *testing.T) {
	t.Run("non-admin updating another user is forbidden", func(t *testing.T) {
		mockUsers := new(MockUserService)
		c, _ := newUserContext(t, http.MethodPut, `{"name":"New Name"}`, "7", userClaims(5, model.RoleUser))

		err := NewUserHandler(mockUsers).UpdateUser(c)

		assertHTTPError(t, err, http.StatusForbidden, "FORBIDDEN")
		mockUsers.AssertNotCalled(t, "Update")
	})

	t.Run("non-admin changing own role is forbidden", func(t *testing.T) {
		mockUsers := new(MockUserService)
		c, _ := newUserContext(t, http.MethodPut, `{"role":"admin"}`, "5", userClaims(5, model.RoleUser))

		err := NewUserHandler(mockUsers).UpdateUser(c)

		assertHTTPError(t, err, http.StatusForbidden, "FORBIDDEN")
		mockUsers.AssertNotCalled(t, "Update")
	})

	t.Run("self update succeeds", func(t *testing.T) {
		mockUsers := new(MockUserService)
		mockUsers.On("Update", mock.Anything, uint(5), mock.AnythingOfType("service.UpdateUserInput")).
			Return(&model.User{ID: 5, Name: "New Name", Email: "caller@ex.com"}, nil)

		c, rec := newUserContext(t, http.MethodPut, `{"name":"New Name"}`, "5", userClaims(5, model.RoleUser))
		err := NewUserHandler(mockUsers).UpdateUser(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "New Name")
	})

	t.Run("admin can change another user's role", func(t *testing.T) {
		mockUsers := new(MockUserService)
		var captured service.UpdateUserInput
		mockUsers.On("Update", mock.Anything, uint(5), mock.AnythingOfType("service.UpdateUserInput")).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(service.UpdateUserInput)
			}).
			Return(&model.User{ID: 5, Role: model.RoleAdmin}, nil)

		c, rec := newUserContext(t, http.MethodPut, `{"role":"admin"}`, "5", userClaims(9, model.RoleAdmin))
		err := NewUserHandler(mockUsers).UpdateUser(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, captured.Role)
		assert.Equal(t, model.RoleAdmin, *captured.Role)
	})

	t.Run("invalid field values are rejected", func(t *testing.T) {
		mockUsers := new(MockUserService)
		c, _ := newUserContext(t, http.MethodPut, `{"password":"short"}`, "5", userClaims(5, model.RoleUser))

		err := NewUserHandler(mockUsers).UpdateUser(c)

		assertHTTPError(t, err, http.StatusBadRequest, "VALIDATION_FAILED")
		mockUsers.AssertNotCalled(t, "Update")
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		mockUsers := new(MockUserService)
		mockUsers.On("Update", mock.Anything, uint(99), mock.AnythingOfType("service.UpdateUserInput")).
			Return(nil, apperrors.ErrUserNotFound)

		c, _ := newUserContext(t, http.MethodPut, `{"name":"New Name"}`, "99", userClaims(9, model.RoleAdmin))
		err := NewUserHandler(mockUsers).UpdateUser(c)
		assertHTTPError(t, err, http.StatusNotFound, "USER_NOT_FOUND")
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Run("non-admin is forbidden even on self", func(t *testing.T) {
		mockUsers := new(MockUserService)
		c, _ := newUserContext(t, http.MethodDelete, "", "5", userClaims(5, model.RoleUser))

		err := NewUserHandler(mockUsers).DeleteUser(c)

		assertHTTPError(t, err, http.StatusForbidden, "FORBIDDEN")
		mockUsers.AssertNotCalled(t, "Delete")
	})

	t.Run("bad id is rejected", func(t *testing.T) {
		c, _ := newUserContext(t, http.MethodDelete, "", "0", userClaims(9, model.RoleAdmin))
		err := NewUserHandler(new(MockUserService)).DeleteUser(c)
		assertHTTPError(t, err, http.StatusBadRequest, "VALIDATION_FAILED")
	})

	t.Run("admin delete returns the removed row", func(t *testing.T) {
		mockUsers := new(MockUserService)
		mockUsers.On("Delete", mock.Anything, uint(5)).
			Return(&model.User{ID: 5, Email: "gone@ex.com"}, nil)

		c, rec := newUserContext(t, http.MethodDelete, "", "5", userClaims(9, model.RoleAdmin))
		err := NewUserHandler(mockUsers).DeleteUser(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "gone@ex.com")
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		mockUsers := new(MockUserService)
		mockUsers.On("Delete", mock.Anything, uint(99)).Return(nil, apperrors.ErrUserNotFound)

		c, _ := newUserContext(t, http.MethodDelete, "", "99", userClaims(9, model.RoleAdmin))
		err := NewUserHandler(mockUsers).DeleteUser(c)
		assertHTTPError(t, err, http.StatusNotFound, "USER_NOT_FOUND")
	})
}
