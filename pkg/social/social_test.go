package social

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dghubble/oauth1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTwitter struct {
	server      *httptest.Server
	tweets      []tweetRequest
	uploads     int
	uploadedLen int
	authHeaders []string
}

func newStubTwitter(t *testing.T) *stubTwitter {
	s := &stubTwitter{}
	mux := http.NewServeMux()

	mux.HandleFunc("/oauth/request_token", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "oauth_token=req-token&oauth_token_secret=req-secret&oauth_callback_confirmed=true")
	})
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Authorization"), `oauth_verifier="123456"`) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, "oauth_token=acc-token&oauth_token_secret=acc-secret")
	})
	mux.HandleFunc("/images/cover.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\x89PNG fake image bytes"))
	})
	mux.HandleFunc("/1.1/media/upload.json", func(w http.ResponseWriter, r *http.Request) {
		s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
		file, _, err := r.FormFile("media")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		s.uploads++
		s.uploadedLen = len(data)
		json.NewEncoder(w).Encode(map[string]string{"media_id_string": "m-1"})
	})
	mux.HandleFunc("/2/tweets", func(w http.ResponseWriter, r *http.Request) {
		s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
		var req tweetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.tweets = append(s.tweets, req)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "tw-1", "text": req.Text}})
	})
	mux.HandleFunc("/fail/2/tweets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"detail":"duplicate content"}`)
	})

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func (s *stubTwitter) poster() *TwitterPoster {
	p := NewTwitterPoster(NewCredential("ck", "cs", "at", "as"))
	p.APIBase = s.server.URL
	p.UploadBase = s.server.URL
	p.Fetch = s.server.Client()
	return p
}

func TestTwitterPosterTextOnly(t *testing.T) {
	stub := newStubTwitter(t)

	id, err := stub.poster().PostStatus(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "tw-1", id)
	require.Len(t, stub.tweets, 1)
	assert.Equal(t, "hello", stub.tweets[0].Text)
	assert.Nil(t, stub.tweets[0].Media)
	assert.Zero(t, stub.uploads)
	for _, h := range stub.authHeaders {
		assert.Contains(t, h, `oauth_consumer_key="ck"`)
		assert.Contains(t, h, `oauth_token="at"`)
	}
}

func TestTwitterPosterWithImage(t *testing.T) {
	stub := newStubTwitter(t)

	id, err := stub.poster().PostStatus(context.Background(), "with image", stub.server.URL+"/images/cover.png")
	require.NoError(t, err)
	assert.Equal(t, "tw-1", id)
	assert.Equal(t, 1, stub.uploads)
	assert.Equal(t, len("\x89PNG fake image bytes"), stub.uploadedLen)
	require.Len(t, stub.tweets, 1)
	require.NotNil(t, stub.tweets[0].Media)
	assert.Equal(t, []string{"m-1"}, stub.tweets[0].Media.MediaIDs)
}

func TestTwitterPosterSurfacesAPIErrors(t *testing.T) {
	stub := newStubTwitter(t)
	p := stub.poster()
	p.APIBase = stub.server.URL + "/fail"

	_, err := p.PostStatus(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestTwitterPosterMissingImage(t *testing.T) {
	stub := newStubTwitter(t)

	_, err := stub.poster().PostStatus(context.Background(), "hello", stub.server.URL+"/images/missing.png")
	require.Error(t, err)
	assert.Empty(t, stub.tweets)
}

func TestAuthorizePIN(t *testing.T) {
	stub := newStubTwitter(t)
	var out bytes.Buffer

	cred, err := AuthorizePIN(context.Background(), PINFlow{
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		Endpoint: &oauth1.Endpoint{
			RequestTokenURL: stub.server.URL + "/oauth/request_token",
			AuthorizeURL:    stub.server.URL + "/oauth/authorize",
			AccessTokenURL:  stub.server.URL + "/oauth/access_token",
		},
		In:  strings.NewReader("123456\n"),
		Out: &out,
	})
	require.NoError(t, err)

	token, secret := cred.AccessToken()
	assert.Equal(t, "acc-token", token)
	assert.Equal(t, "acc-secret", secret)
	assert.Contains(t, out.String(), "/oauth/authorize?oauth_token=req-token")
}

func TestAuthorizePINRequiresConsumerKeys(t *testing.T) {
	_, err := AuthorizePIN(context.Background(), PINFlow{In: strings.NewReader(""), Out: io.Discard})
	assert.Error(t, err)
}
