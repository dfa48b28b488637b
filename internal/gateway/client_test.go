package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(backend *httptest.Server) *Client {
	session := NewSession("svc", "secret")
	session.SetToken("initial-token")
	return NewClient(backend.URL, "https://media.example.com", "en", session)
}

func TestClientSendsAuthAndLangHeaders(t *testing.T) {
	var gotAuth, gotLang string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotLang = r.Header.Get("lang")
		w.Write([]byte(`[]`))
	}))
	defer backend.Close()

	client := newTestClient(backend)
	_, err := client.Get("/Users/GetDropDown", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Bearer initial-token", gotAuth)
	assert.Equal(t, "en", gotLang)
}

func TestClientRetriesOnceAfter401(t *testing.T) {
	var loginCalls, dataCalls int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Auth/login":
			atomic.AddInt32(&loginCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token"})
		default:
			calls := atomic.AddInt32(&dataCalls, 1)
			if calls == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			assert.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
			w.Write([]byte(`{"items":[]}`))
		}
	}))
	defer backend.Close()

	client := newTestClient(backend)
	resp, err := client.Post("/UserRequest", map[string]interface{}{"page": 1})
	assert.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(resp))
	assert.Equal(t, int32(1), atomic.LoadInt32(&loginCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&dataCalls))
	assert.Equal(t, "fresh-token", client.Session.Token())
}

func TestClientGivesUpWhenRefreshFails(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	client := newTestClient(backend)
	_, err := client.Get("/Product", nil)
	assert.Error(t, err)
	assert.Equal(t, "session expired, sign in again", err.Error())
}

func TestClientSurfacesBackendErrorMessage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Quantity exceeds stock"})
	}))
	defer backend.Close()

	client := newTestClient(backend)
	_, err := client.Post("/UserRequest/registerProductRequest", map[string]interface{}{"productId": 1})
	assert.Error(t, err)
	assert.Equal(t, "Quantity exceeds stock", err.Error())
}

func TestClientPostMultipart(t *testing.T) {
	var gotAmount, gotFileName string
	var gotContent []byte
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotAmount = r.FormValue("amount")
		file, header, err := r.FormFile("transferImage")
		if assert.NoError(t, err) {
			defer file.Close()
			gotFileName = header.Filename
			buf := make([]byte, 16)
			n, _ := file.Read(buf)
			gotContent = buf[:n]
		}
		w.Write([]byte(`{}`))
	}))
	defer backend.Close()

	client := newTestClient(backend)
	_, err := client.PostMultipart(
		"/UserRequest/registerRechargeReuest",
		nil,
		map[string]string{"amount": "250"},
		[]FilePart{{Field: "transferImage", FileName: "proof.png", Content: []byte("png-bytes")}},
	)
	assert.NoError(t, err)
	assert.Equal(t, "250", gotAmount)
	assert.Equal(t, "proof.png", gotFileName)
	assert.Equal(t, "png-bytes", string(gotContent))
}

func TestLoginExtractsNestedToken(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Auth/login", r.URL.Path)
		w.Write([]byte(`{"data":{"accessToken":"nested-token","userName":"admin"}}`))
	}))
	defer backend.Close()

	client := newTestClient(backend)
	_, err := client.Login("admin", "secret")
	assert.NoError(t, err)
	assert.Equal(t, "nested-token", client.Session.Token())
}

func TestAuthenticateDoesNotTouchSession(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"console-user-token"}`))
	}))
	defer backend.Close()

	client := newTestClient(backend)
	resp, err := client.Authenticate("someone", "pw")
	assert.NoError(t, err)
	assert.Contains(t, string(resp), "console-user-token")
	assert.Equal(t, "initial-token", client.Session.Token())
}

func TestMediaURL(t *testing.T) {
	client := &Client{MediaBaseURL: "https://media.example.com"}
	assert.Equal(t, "https://media.example.com/uploads/a.png", client.MediaURL("/uploads/a.png"))
	assert.Equal(t, "https://media.example.com/uploads/a.png", client.MediaURL("uploads/a.png"))
	assert.Equal(t, "https://cdn.other.com/b.png", client.MediaURL("https://cdn.other.com/b.png"))
	assert.Equal(t, "", client.MediaURL(""))
}
