package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drobledo/pulso-cli/internal/domain"
	"github.com/drobledo/pulso-cli/internal/ports"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, staticTokens(token),
		WithClock(fixedClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}),
	)
	require.NoError(t, err)

	return client, server
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	_, err := NewClient("ftp://host/api", nil)
	require.Error(t, err)

	_, err = NewClient("http://", nil)
	require.Error(t, err)

	_, err = NewClient("https://api.example.com/api", nil)
	require.NoError(t, err)
}

func TestLoginPostsSpanishFieldNamesAndReturnsRawBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bob", body["usuario"])
		assert.Equal(t, "pw", body["password"])

		_, _ = fmt.Fprint(w, `{"usuario": {"_id": "u1"}, "token": "tok"}`)
	}, "")

	raw, err := client.Login(context.Background(), "bob", "pw")
	require.NoError(t, err)
	assert.JSONEq(t, `{"usuario": {"_id": "u1"}, "token": "tok"}`, string(raw))
}

func TestLoginRejectsMissingCredentialsWithoutRequest(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(http.ResponseWriter, *http.Request) { called = true }, "")

	_, err := client.Login(context.Background(), "", "pw")
	require.Error(t, err)
	assert.Equal(t, domain.ClassValidation, domain.ClassOf(err))
	assert.False(t, called)
}

func TestRegisterTreatsOKFalseAsValidationError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/registro", r.URL.Path)
		_, _ = fmt.Fprint(w, `{"ok": false, "message": "usuario ya existe"}`)
	}, "")

	err := client.Register(context.Background(), ports.RegisterRequest{
		DisplayName: "Bob", Username: "bob", Email: "b@e.com", Password: "pw",
	})
	require.Error(t, err)
	assert.Equal(t, domain.ClassValidation, domain.ClassOf(err))
	assert.Contains(t, err.Error(), "usuario ya existe")
}

func TestRegisterSucceeds(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Bob", body["nombre"])
		assert.Equal(t, "bob", body["usuario"])
		_, _ = fmt.Fprint(w, `{"ok": true}`)
	}, "")

	err := client.Register(context.Background(), ports.RegisterRequest{
		DisplayName: "Bob", Username: "bob", Email: "b@e.com", Password: "pw",
	})
	require.NoError(t, err)
}

func TestFeedSendsBearerAndNormalizes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = fmt.Fprint(w, `{"tweets": [{"_id": "a1", "contenido": "hi", "usuario": {"usuario": "bob"}, "likes": ["u1", "u2"]}]}`)
	}, "tok-123")

	tweets, err := client.Feed(context.Background())
	require.NoError(t, err)

	require.Len(t, tweets, 1)
	assert.Equal(t, "a1", tweets[0].ID)
	assert.Equal(t, "hi", tweets[0].Content)
	assert.Equal(t, "bob", tweets[0].Author.Username)
	assert.Equal(t, 2, tweets[0].LikeCount)
}

func TestCreateTweetHandlesWrappedAndBareResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrapped", `{"tweet": {"_id": "t9", "contenido": "hola"}}`},
		{"bare", `{"_id": "t9", "contenido": "hola"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprint(w, tt.body)
			}, "tok")

			tweet, err := client.CreateTweet(context.Background(), "hola")
			require.NoError(t, err)
			assert.Equal(t, "t9", tweet.ID)
			assert.Equal(t, "hola", tweet.Content)
			assert.True(t, tweet.Mine)
		})
	}
}

func TestToggleTweetLikeParsesServerVerdict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets/t1/like", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = fmt.Fprint(w, `{"liked": true, "likes": 5}`)
	}, "tok")

	result, err := client.ToggleTweetLike(context.Background(), "t1")
	require.NoError(t, err)

	require.NotNil(t, result.Liked)
	assert.True(t, *result.Liked)
	require.NotNil(t, result.LikeCount)
	assert.Equal(t, 5, *result.LikeCount)
}

func TestStatusClassing(t *testing.T) {
	tests := []struct {
		status      int
		wantClass   domain.ErrorClass
		wantReauth  bool
		wantMessage string
	}{
		{http.StatusUnauthorized, domain.ClassAuth, true, "token expirado"},
		{http.StatusForbidden, domain.ClassForbidden, false, "no es tuyo"},
		{http.StatusNotFound, domain.ClassNotFound, false, "no encontrado"},
		{http.StatusBadRequest, domain.ClassValidation, false, "contenido requerido"},
		{http.StatusInternalServerError, domain.ClassUnknown, false, "boom"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprintf(w, `{"message": %q}`, tt.wantMessage)
			}, "tok")

			_, err := client.Feed(context.Background())
			require.Error(t, err)

			var reqErr *domain.RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.wantClass, reqErr.Class)
			assert.Equal(t, tt.status, reqErr.Status)
			assert.Equal(t, tt.wantReauth, reqErr.RequiresReauth)
			assert.Equal(t, tt.wantMessage, reqErr.Message)
		})
	}
}

func TestNetworkFailureClassing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)
	server.Close()

	_, err = client.Feed(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.ClassNetwork, domain.ClassOf(err))
}

func TestCommentsTreats404AsEmptyList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets/t1/comentarios", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, `{"message": "sin comentarios"}`)
	}, "")

	comments, err := client.Comments(context.Background(), "t1")
	require.NoError(t, err)
	assert.Nil(t, comments)
}

func TestCommentsResolvesEitherAliasList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"comments": [{"_id": "c1", "content": "x"}]}`)
	}, "")

	comments, err := client.Comments(context.Background(), "t1")
	require.NoError(t, err)

	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "t1", comments[0].TweetID)
}

func TestCreateCommentFallsBackToSentContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"message": "comentario creado"}`)
	}, "tok")

	comment, err := client.CreateComment(context.Background(), "t1", "hola")
	require.NoError(t, err)

	assert.Equal(t, "t1", comment.TweetID)
	assert.Equal(t, "hola", comment.Content)
}

func TestUpdateCommentMarksEdited(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tweets/t1/comentarios/c1", r.URL.Path)
		_, _ = fmt.Fprint(w, `{"comentario": {"_id": "c1", "contenido": "editado"}}`)
	}, "tok")

	comment, err := client.UpdateComment(context.Background(), "t1", "c1", "editado")
	require.NoError(t, err)

	assert.Equal(t, "editado", comment.Content)
	assert.True(t, comment.Edited)
}

func TestUserProfileNormalizesSpanishFields(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1", r.URL.Path)
		_, _ = fmt.Fprint(w, `{"_id": "u1", "usuario": "bob", "nombre": "Bob", "descripcion": "hola"}`)
	}, "")

	user, err := client.UserProfile(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "Bob", user.DisplayName)
	assert.Equal(t, "hola", user.Bio)
}

func TestUpdateProfileSendsOnlySetFieldsWithEnglishKeys(t *testing.T) {
	bio := "nueva bio"

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/users/u1", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"bio": bio}, body)

		_, _ = fmt.Fprint(w, `{"usuario": {"_id": "u1", "usuario": "bob", "bio": "nueva bio"}}`)
	}, "tok")

	user, err := client.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "nueva bio", user.Bio)
}

func TestUpdateProfileToleratesBareUserResponse(t *testing.T) {
	bio := "hola"

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Legacy releases answered the user object itself, where
		// "usuario" is the username string.
		_, _ = fmt.Fprint(w, `{"_id": "u1", "usuario": "bob", "nombre": "Bob", "bio": "hola"}`)
	}, "tok")

	user, err := client.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "Bob", user.DisplayName)
	assert.Equal(t, "hola", user.Bio)
}

func TestUploadAvatarPostsMultipartImage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/u1/upload-avatar", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		file, header, err := r.FormFile("avatar")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		assert.Equal(t, "me.png", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(content))

		_, _ = fmt.Fprint(w, `{"avatar_url": "https://cdn.example.com/u1.png", "message": "Avatar actualizado"}`)
	}, "tok")

	avatarURL, err := client.UploadAvatar(context.Background(), "u1", "/tmp/photos/me.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/u1.png", avatarURL)
}

func TestUploadAvatarFallsBackToURLField(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"url": "https://cdn.example.com/u1.png"}`)
	}, "tok")

	avatarURL, err := client.UploadAvatar(context.Background(), "u1", "me.png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/u1.png", avatarURL)
}

func TestSuggestedUsersToleratesWrappedAndBareLists(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrapped", `{"users": [{"_id": "u2", "usuario": "ana"}]}`},
		{"bare array", `[{"_id": "u2", "usuario": "ana"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/suggested", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				_, _ = fmt.Fprint(w, tt.body)
			}, "tok")

			users, err := client.SuggestedUsers(context.Background())
			require.NoError(t, err)
			require.Len(t, users, 1)
			assert.Equal(t, "ana", users[0].Username)
		})
	}
}

func TestSearchUsersEscapesQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/search", r.URL.Path)
		assert.Equal(t, "a b", r.URL.Query().Get("q"))
		_, _ = fmt.Fprint(w, `{"users": [{"_id": "u2", "usuario": "ana"}]}`)
	}, "tok")

	users, err := client.SearchUsers(context.Background(), "a b")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ana", users[0].Username)
}

func TestDeleteTweetRequiresID(t *testing.T) {
	client, _ := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	}, "tok")

	assert.Error(t, client.DeleteTweet(context.Background(), ""))
}
