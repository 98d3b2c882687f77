package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@x.com", body.Email)

		_ = json.NewEncoder(w).Encode(LoginResponse{
			Token: "T1",
			User: &UserSnapshot{
				ID:         "u1",
				Email:      "a@x.com",
				HasProfile: true,
				Profile:    &UserProfileData{Birthdate: "1990-07-10", FavoriteElement: "Water"},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	got, err := c.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "T1", got.Token)
	require.NotNil(t, got.User)
	require.Equal(t, "1990-07-10", got.User.Profile.Birthdate)
}

func TestHTTPClient_BearerTokenAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]DreamRecord{})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetToken("T1")
	_, err := c.ListDreams(context.Background())
	require.NoError(t, err)
}

func TestHTTPClient_ListDreams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/dream/dreams", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]DreamRecord{
			{ID: "a", Title: "Flying", DreamText: "text", Summary: "sum", IsLucid: true, Tags: []string{"flying"}, Mood: "peaceful"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	got, err := c.ListDreams(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Flying", got[0].Title)
	require.True(t, got[0].IsLucid)
}

func TestHTTPClient_CreateAndDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body CreateDreamRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "a dream", body.DreamText)
			_ = json.NewEncoder(w).Encode(CreateDreamResponse{DreamID: "srv-1"})
		case http.MethodDelete:
			require.Equal(t, "/dream/dreams/srv-1", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)

	created, err := c.CreateDream(context.Background(), CreateDreamRequest{DreamText: "a dream"})
	require.NoError(t, err)
	require.Equal(t, "srv-1", created.DreamID)

	require.NoError(t, c.DeleteDream(context.Background(), "srv-1"))
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 maps to ErrUnauthorized",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "500 maps to APIError",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				require.Equal(t, http.StatusInternalServerError, apiErr.Status)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL)
			_, err := c.ListDreams(context.Background())
			tc.check(t, err)
		})
	}
}

func TestHTTPClient_UnreachableServer(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1")
	_, err := c.ListDreams(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_TrendSummaryTuples(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trend/trends/summary", r.URL.Path)
		_, _ = w.Write([]byte(`{"total_dreams":7,"avg_per_week":1.5,"common_tags":[["nightmare",4],["flying",2]]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	got, err := c.TrendSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, got.TotalDreams)
	require.Equal(t, []TagCount{{Tag: "nightmare", Count: 4}, {Tag: "flying", Count: 2}}, got.CommonTags)
}

func TestHTTPClient_RegisterErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(registerResponse{Error: "email already taken"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	err := c.Register(context.Background(), "a@x.com", "pw", "ana")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "email already taken", apiErr.Message)
}

func TestHTTPClient_UpdateProfilePartialBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/user_bp/users/u1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "1990-07-10", body["birthdate"])
		require.NotContains(t, body, "name")
		_ = json.NewEncoder(w).Encode(map[string]any{"updated_fields": body})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	err := c.UpdateProfile(context.Background(), "u1", ProfileUpdateRequest{
		Birthdate:       "1990-07-10",
		FavoriteElement: "Water",
		DreamGoals:      []string{"Better dream recall"},
	})
	require.NoError(t, err)
}
