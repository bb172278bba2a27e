package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJarRoundTrip(t *testing.T) {
	origin, err := url.Parse("https://judge.example.com")
	require.NoError(t, err)

	jar, err := NewJar()
	require.NoError(t, err)
	jar.SetCookies(origin, []*http.Cookie{
		{Name: "REVEL_SESSION", Value: "abc123", Path: "/"},
		{Name: "csrf_token", Value: "xyz", Path: "/"},
	})

	path := filepath.Join(t.TempDir(), "nested", "cookie.jar")
	require.NoError(t, jar.Save(path))

	reloaded, err := NewJar()
	require.NoError(t, err)
	require.NoError(t, reloaded.Load(path))

	got := reloaded.Cookies(origin)
	require.Len(t, got, 2)
	byName := map[string]string{}
	for _, c := range got {
		byName[c.Name] = c.Value
	}
	require.Equal(t, "abc123", byName["REVEL_SESSION"])
	require.Equal(t, "xyz", byName["csrf_token"])
}

func TestJarFilePermissions(t *testing.T) {
	origin, err := url.Parse("https://judge.example.com")
	require.NoError(t, err)

	jar, err := NewJar()
	require.NoError(t, err)
	jar.SetCookies(origin, []*http.Cookie{{Name: "session", Value: "v", Path: "/"}})

	path := filepath.Join(t.TempDir(), "cookie.jar")
	require.NoError(t, jar.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestJarReplacesAndPrunes(t *testing.T) {
	origin, err := url.Parse("https://judge.example.com")
	require.NoError(t, err)

	jar, err := NewJar()
	require.NoError(t, err)
	jar.SetCookies(origin, []*http.Cookie{{Name: "session", Value: "old", Path: "/"}})
	jar.SetCookies(origin, []*http.Cookie{{Name: "session", Value: "new", Path: "/"}})

	require.Len(t, jar.entries[originKey(origin)], 1)
	require.Equal(t, "new", jar.entries[originKey(origin)][0].Value)

	// MaxAge < 0 is a deletion
	jar.SetCookies(origin, []*http.Cookie{{Name: "session", Value: "", Path: "/", MaxAge: -1}})
	require.Empty(t, jar.entries[originKey(origin)])
}

func TestJarLoadMissingFile(t *testing.T) {
	jar, err := NewJar()
	require.NoError(t, err)
	require.NoError(t, jar.Load(filepath.Join(t.TempDir(), "does-not-exist.jar")))
}

func TestAcquireRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err != nil {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "issued", Path: "/"})
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "cookie.jar")

	s, err := Acquire(path)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), server.URL)
	require.NoError(t, err)
	require.NoError(t, s.Release())

	// a fresh session acquired from the same path replays the cookie
	s2, err := Acquire(path)
	require.NoError(t, err)
	defer s2.Release()

	origin, err := url.Parse(server.URL)
	require.NoError(t, err)
	cookies := s2.jar.Cookies(origin)
	require.Len(t, cookies, 1)
	require.Equal(t, "issued", cookies[0].Value)
}

func TestDownloadStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	s, err := New()
	require.NoError(t, err)

	_, err = s.Download(context.Background(), server.URL)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.Code)
	require.Equal(t, "404 Not Found", statusErr.Error())
}

func TestDoNoRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s, err := New()
	require.NoError(t, err)

	res, err := s.Do(context.Background(), http.MethodGet, server.URL+"/start", RequestOptions{NoRedirect: true})
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, res.StatusCode())
	require.Equal(t, "/end", res.Header().Get("Location"))

	// the flexible policy must be restored afterwards
	res, err = s.Get(context.Background(), server.URL+"/start")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
	require.Equal(t, "/end", FinalURL(res).Path)
}

func TestReleaseWithoutPath(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.NoError(t, s.Release())
}

func TestAcquireCorruptJar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookie.jar")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := Acquire(path)
	require.Error(t, err)
	require.False(t, errors.Is(err, os.ErrNotExist))
}
