package apiclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appsim/appsim/pkg/directory"
	"github.com/appsim/appsim/pkg/mockapi"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	svc := mockapi.NewUserService(1)
	r := mockapi.NewRouter(mockapi.RouterOptions{Strict: true}, svc.Routes()...)
	return New("http://mock.local", WithHTTPClient(&http.Client{Transport: r}))
}

func TestListAndGet(t *testing.T) {
	c := newTestClient(t)

	users, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "John Doe", users[0].Name)

	user, err := c.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", user.Name)
	assert.Equal(t, "Tech Solutions Inc", user.Company.Name)
}

func TestGetMissingIsNotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Get(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestCreateRoundTrip(t *testing.T) {
	c := newTestClient(t)

	created, err := c.Create(context.Background(), directory.UserProfile{
		Name:     "New Person",
		Username: "new.person",
		Email:    "new@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)
	assert.Equal(t, "New Person", created.Name)
}

func TestUpdateMergesPartial(t *testing.T) {
	c := newTestClient(t)

	merged, err := c.Update(context.Background(), 1, map[string]any{
		"name":  "John Renamed",
		"phone": "+1-555-9999",
	})
	require.NoError(t, err)
	assert.Equal(t, "John Renamed", merged.Name)
	assert.Equal(t, "+1-555-9999", merged.Phone)
	assert.Equal(t, "john.doe@example.com", merged.Email)
}

func TestDeleteUser(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, c.Delete(context.Background(), 3))

	users, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	err = c.Delete(context.Background(), 3)
	assert.True(t, IsNotFound(err))
}

func TestSearchEscapesQuery(t *testing.T) {
	c := newTestClient(t)

	matches, err := c.Search(context.Background(), "jane smith")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].ID)

	matches, err = c.Search(context.Background(), "no such person")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStatusErrorCarriesBody(t *testing.T) {
	svc := mockapi.NewUserService(1)
	r := mockapi.NewRouter(mockapi.RouterOptions{Strict: true}, svc.Routes()...)
	c := New("http://mock.local", WithHTTPClient(&http.Client{Transport: r}))

	err := c.do(context.Background(), http.MethodGet, "/error-endpoint", nil, nil)
	require.Error(t, err)

	se, ok := err.(*StatusError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Contains(t, se.Body, "Internal server error")
}
