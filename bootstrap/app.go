package bootstrap

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/viant/authboot/config"
)

const apiPrefix = "/api/"

// App is the application root served on the hosted UI redirect origin
type App struct {
	sequencer *Sequencer
	logger    hclog.Logger
}

type status struct {
	SignedIn bool       `json:"signedIn"`
	Expiry   *time.Time `json:"expiry,omitempty"`
	Error    string     `json:"error,omitempty"`
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/":
		a.handleRoot(w, r)
	case r.URL.Path == "/signin":
		a.handleSignIn(w, r)
	case r.URL.Path == "/signout":
		a.handleSignOut(w, r)
	case strings.HasPrefix(r.URL.Path, apiPrefix):
		a.handleAPI(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (a *App) handleRoot(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if errorCode := query.Get("error"); errorCode != "" {
		writeJSON(w, http.StatusUnauthorized, &status{Error: errorCode + ": " + query.Get("error_description")})
		return
	}
	if code := query.Get("code"); code != "" {
		ctx := r.Context()
		if _, err := a.sequencer.Identity().HandleCallback(ctx, code, query.Get("state")); err != nil {
			a.logger.Warn("sign-in callback failed", "error", err)
			writeJSON(w, http.StatusUnauthorized, &status{Error: err.Error()})
			return
		}
		if err := a.sequencer.Cache().Init(ctx); err != nil {
			a.logger.Warn("token init failed", "error", err)
		}
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	token, err := a.sequencer.Cache().FetchToken(r.Context())
	if err != nil {
		a.logger.Warn("token fetch failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, &status{Error: err.Error()})
		return
	}
	result := &status{SignedIn: token != ""}
	if result.SignedIn {
		if session, err := a.sequencer.Identity().CurrentSession(r.Context()); err == nil && !session.Expiry.IsZero() {
			result.Expiry = &session.Expiry
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *App) handleSignIn(w http.ResponseWriter, r *http.Request) {
	URL, err := a.sequencer.Identity().AuthorizeURL()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, &status{Error: err.Error()})
		return
	}
	http.Redirect(w, r, URL, http.StatusFound)
}

func (a *App) handleSignOut(w http.ResponseWriter, r *http.Request) {
	identity := a.sequencer.Identity()
	if err := identity.SignOut(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, &status{Error: err.Error()})
		return
	}
	a.sequencer.Cache().Invalidate()
	URL, err := identity.SignOutURL()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, &status{Error: err.Error()})
		return
	}
	http.Redirect(w, r, URL, http.StatusFound)
}

// handleAPI forwards requests to the registered API endpoint
func (a *App) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, apiPrefix)
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}
	var body io.Reader
	if r.ContentLength != 0 {
		body = r.Body
	}
	resp, err := a.sequencer.API().Do(r.Context(), config.TestAPIName, r.Method, path, body, forwardedHeader(r.Header))
	if err != nil {
		a.logger.Warn("api request failed", "path", path, "error", err)
		writeJSON(w, http.StatusBadGateway, &status{Error: err.Error()})
		return
	}
	defer resp.Body.Close()
	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// forwardedHeader drops credentials and hop-by-hop headers of the inbound request
func forwardedHeader(header http.Header) http.Header {
	ret := header.Clone()
	for _, key := range []string{"Authorization", "Cookie", "Host", "Connection", "Content-Length",
		"Keep-Alive", "Proxy-Authorization", "Te", "Trailer", "Transfer-Encoding", "Upgrade"} {
		ret.Del(key)
	}
	return ret
}

func writeJSON(w http.ResponseWriter, statusCode int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

// NewApp creates the application root for a sequencer
func NewApp(sequencer *Sequencer) *App {
	return &App{sequencer: sequencer, logger: sequencer.logger.Named("app")}
}
