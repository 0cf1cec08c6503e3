package users

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/atelier/server/atelier/sessions"
	domain "codeberg.org/atelier/server/atelier/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const adminID = "11111111-2222-3333-4444-555555555555"

type fakeStore struct {
	users map[string]*domain.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*domain.User{
		adminID: {ID: adminID, Username: "root", Role: domain.RoleAdmin},
	}}
}

func (s *fakeStore) FindByID(_ context.Context, userID string) (*domain.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return user, nil
}

func (s *fakeStore) List(_ context.Context, limit, _ int) ([]*domain.User, error) {
	list := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		if len(list) == limit {
			break
		}
		list = append(list, u)
	}

	return list, nil
}

func (s *fakeStore) UpdateRole(_ context.Context, userID, role string) (*domain.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	user.Role = role

	return user, nil
}

func adminTestRouter(store *fakeStore, sessionStore sessions.Store) *gin.Engine {
	router := gin.New()
	group := router.Group("/api/users")

	group.GET("", ListHandler(store))
	group.PUT("/:id/role", UpdateRoleHandler(store))
	group.DELETE("/:id/sessions", RevokeSessionsHandler(store, sessionStore))

	return router
}

func TestListHandler(t *testing.T) {
	router := adminTestRouter(newFakeStore(), sessions.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"root"`)
}

func TestUpdateRoleHandler(t *testing.T) {
	store := newFakeStore()
	router := adminTestRouter(store, sessions.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPut, "/api/users/"+adminID+"/role",
		strings.NewReader(`{"role": "designer"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RoleDesigner, store.users[adminID].Role)
}

func TestUpdateRoleHandler_UnknownRole(t *testing.T) {
	router := adminTestRouter(newFakeStore(), sessions.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPut, "/api/users/"+adminID+"/role",
		strings.NewReader(`{"role": "emperor"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRoleHandler_MalformedID(t *testing.T) {
	router := adminTestRouter(newFakeStore(), sessions.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPut, "/api/users/not-a-uuid/role",
		strings.NewReader(`{"role": "client"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateRoleHandler_UnknownUser(t *testing.T) {
	router := adminTestRouter(newFakeStore(), sessions.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPut,
		"/api/users/99999999-8888-7777-6666-555555555555/role",
		strings.NewReader(`{"role": "client"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRevokeSessionsHandler(t *testing.T) {
	sessionStore := sessions.NewMemoryStore()
	router := adminTestRouter(newFakeStore(), sessionStore)

	var ids []string
	for i := 0; i < 3; i++ {
		session, err := sessionStore.Create(context.Background(), adminID, time.Hour)
		require.NoError(t, err)
		ids = append(ids, session.ID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/users/%s/sessions", adminID), nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	for _, id := range ids {
		_, err := sessionStore.Get(context.Background(), id)
		assert.ErrorIs(t, err, sessions.ErrSessionNotFound)
	}
}

func TestRevokeSessionsHandler_UnknownUser(t *testing.T) {
	router := adminTestRouter(newFakeStore(), sessions.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete,
		"/api/users/99999999-8888-7777-6666-555555555555/sessions", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
