package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authboot/identity"
)

func noRedirectClient() *http.Client {
	return &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func getStatus(t *testing.T, client *http.Client, URL string) *status {
	resp, err := client.Get(URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := &status{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(result))
	return result
}

func redirectLocation(t *testing.T, client *http.Client, URL string) *url.URL {
	resp, err := client.Get(URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode, URL)
	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return location
}

func TestApp_SignInFlow(t *testing.T) {
	provider := newProvider(t)
	api := newBackend(t)
	sequencer := New(testConfig(provider, api.server.URL))
	outcome, err := sequencer.Run(context.Background())
	require.NoError(t, err)
	require.False(t, outcome.OK())

	app := httptest.NewServer(NewApp(sequencer))
	defer app.Close()
	client := noRedirectClient()

	assert.False(t, getStatus(t, client, app.URL+"/").SignedIn)

	authorizeURL := redirectLocation(t, client, app.URL+"/signin")
	assert.True(t, strings.HasPrefix(authorizeURL.String(), provider.URL()+"/oauth2/authorize"))

	callback := redirectLocation(t, client, authorizeURL.String())
	assert.Equal(t, "localhost:8080", callback.Host)

	home := redirectLocation(t, client, app.URL+"/?"+callback.RawQuery)
	assert.Equal(t, "/", home.Path)

	signedIn := getStatus(t, client, app.URL+"/")
	assert.True(t, signedIn.SignedIn)
	assert.NotNil(t, signedIn.Expiry)

	resp, err := client.Get(app.URL + "/api/items")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":[]}`, string(body))
	headers := api.headers()
	require.Len(t, headers, 1)
	assert.True(t, strings.HasPrefix(headers[0], "Bearer ey"))

	logout := redirectLocation(t, client, app.URL+"/signout")
	assert.Equal(t, "/logout", logout.Path)
	assert.Equal(t, provider.ClientID, logout.Query().Get("client_id"))
	assert.False(t, getStatus(t, client, app.URL+"/").SignedIn)
}

func TestApp_CallbackErrors(t *testing.T) {
	provider := newProvider(t)
	sequencer := New(testConfig(provider, "https://api.example.com"))
	_, err := sequencer.Run(context.Background())
	require.NoError(t, err)
	app := httptest.NewServer(NewApp(sequencer))
	defer app.Close()

	for _, query := range []string{"code=unknown&state=forged", "error=access_denied&error_description=denied"} {
		resp, err := http.Get(app.URL + "/?" + query)
		require.NoError(t, err)
		result := &status{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(result))
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, query)
		assert.NotEmpty(t, result.Error, query)
		assert.False(t, result.SignedIn, query)
	}

	resp, err := http.Get(app.URL + "/unknown")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApp_APIForwardsHeaders(t *testing.T) {
	provider := newProvider(t)
	api := newBackend(t)
	sessionStore, accessToken := seededStore(t, provider)
	sequencer := New(testConfig(provider, api.server.URL), WithIdentity(identity.New(identity.WithStore(sessionStore))))
	outcome, err := sequencer.Run(context.Background())
	require.NoError(t, err)
	require.True(t, outcome.OK())
	app := httptest.NewServer(NewApp(sequencer))
	defer app.Close()

	req, err := http.NewRequest(http.MethodPost, app.URL+"/api/items", strings.NewReader("a,b"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", "Bearer forged")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"text/csv"}, api.contentTypes())
	assert.Equal(t, []string{"Bearer " + accessToken}, api.headers())
}

func TestHTTPMounter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mounter := &HTTPMounter{Addr: "127.0.0.1:0", Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})}
	require.NoError(t, mounter.Mount(ctx))
	resp, err := http.Get("http://" + mounter.Address().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	assert.NoError(t, <-mounter.Done())
}
