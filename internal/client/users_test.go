package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/fivetwenty-io/sonar/pkg/sonar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersHandler(t *testing.T, total int) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/api/v2/users-management/users", request.URL.Path)

		page, _ := strconv.Atoi(request.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(request.URL.Query().Get("pageSize"))

		start := (page - 1) * pageSize

		users := []sonar.User{}
		for i := start; i < start+pageSize && i < total; i++ {
			users = append(users, sonar.User{
				ID:     "uuid-" + strconv.Itoa(i+1),
				Login:  "user" + strconv.Itoa(i+1),
				Active: true,
			})
		}

		response := sonar.V2Page[sonar.User]{
			Data: users,
			Page: sonar.Paging{PageIndex: page, PageSize: pageSize, Total: total},
		}
		_ = json.NewEncoder(writer).Encode(response)
	})
}

func TestUsersClient_Search(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, usersHandler(t, 5))

	iterator := apiClient.Users().Search(context.Background(), "", 2)

	var logins []string

	for iterator.HasNext() {
		user, err := iterator.Next()
		require.NoError(t, err)

		logins = append(logins, user.Login)
	}

	assert.Equal(t, []string{"user1", "user2", "user3", "user4", "user5"}, logins)
}

func TestUsersClient_SearchForwardsQuery(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		// Pagination keys precede the free-text query in the raw string.
		assert.Equal(t, "page=1&pageSize=50&q=alice", request.URL.RawQuery)

		response := sonar.V2Page[sonar.User]{
			Data: []sonar.User{{Login: "alice"}},
			Page: sonar.Paging{PageIndex: 1, PageSize: 50, Total: 1},
		}
		_ = json.NewEncoder(writer).Encode(response)
	}))

	users, err := apiClient.Users().Search(context.Background(), "alice", 50).All()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Login)
}

func TestUsersClient_SearchAll(t *testing.T) {
	t.Parallel()
	t.Run("collects everything", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, usersHandler(t, 7))

		users, err := apiClient.Users().SearchAll(context.Background(), "", 0)
		require.NoError(t, err)
		assert.Len(t, users, 7)
	})

	t.Run("caps at maxItems", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, usersHandler(t, 300))

		users, err := apiClient.Users().SearchAll(context.Background(), "", 10)
		require.NoError(t, err)
		assert.Len(t, users, 10)
	})
}

func TestUsersClient_Create(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

		var body sonar.UserCreateRequest

		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "alice", body.Login)

		writer.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(writer).Encode(sonar.User{
			ID:     "uuid-1",
			Login:  "alice",
			Name:   "Alice",
			Active: true,
		})
	}))

	user, err := apiClient.Users().Create(context.Background(), &sonar.UserCreateRequest{
		Login: "alice",
		Name:  "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", user.ID)
	assert.True(t, user.Active)
}

func TestUsersClient_Deactivate(t *testing.T) {
	t.Parallel()
	t.Run("204 succeeds", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodDelete, request.Method)
			assert.Equal(t, "/api/v2/users-management/users/uuid-1", request.URL.Path)
			writer.WriteHeader(http.StatusNoContent)
		}))

		err := apiClient.Users().Deactivate(context.Background(), "uuid-1")
		require.NoError(t, err)
	})

	t.Run("v2 error envelope surfaces", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"error":{"message":"User not found"}}`))
		}))

		err := apiClient.Users().Deactivate(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, sonar.IsNotFound(err))
		assert.Contains(t, err.Error(), "User not found")
	})
}
