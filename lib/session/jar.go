package session

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Jar is an http.CookieJar that remembers every cookie it has been handed,
// so the full set can be written to disk and replayed into a fresh session.
// The stdlib cookiejar only exposes name/value pairs through Cookies, which
// is not enough to reconstruct domain/path/expiry on reload.
type Jar struct {
	mu      sync.Mutex
	inner   *cookiejar.Jar
	entries map[string][]*http.Cookie
}

func NewJar() (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Jar{
		inner:   inner,
		entries: map[string][]*http.Cookie{},
	}, nil
}

func originKey(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)

	j.mu.Lock()
	defer j.mu.Unlock()

	key := originKey(u)
	kept := j.entries[key]
	for _, c := range cookies {
		replaced := false
		for i, old := range kept {
			if old.Name == c.Name && old.Domain == c.Domain && old.Path == c.Path {
				kept[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			kept = append(kept, c)
		}
	}

	// drop deletions and already-expired cookies
	now := time.Now()
	live := kept[:0]
	for _, c := range kept {
		if c.MaxAge < 0 {
			continue
		}
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		live = append(live, c)
	}
	j.entries[key] = live
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

type jarSnapshot struct {
	Origins map[string][]*http.Cookie `json:"origins"`
}

// Save writes the jar to path, creating parent directories as needed. The
// file holds session credentials, so it is only readable by the owner.
func (j *Jar) Save(path string) error {
	j.mu.Lock()
	snapshot := jarSnapshot{Origins: map[string][]*http.Cookie{}}
	for origin, cookies := range j.entries {
		if len(cookies) == 0 {
			continue
		}
		snapshot.Origins[origin] = cookies
	}
	j.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "." {
		err = os.MkdirAll(dir, 0o755)
		if err != nil {
			return err
		}
	}
	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// Load replays a saved snapshot into the jar. A missing file is not an
// error, the jar just starts empty.
func (j *Jar) Load(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var snapshot jarSnapshot
	err = json.Unmarshal(data, &snapshot)
	if err != nil {
		return err
	}

	origins := make([]string, 0, len(snapshot.Origins))
	for origin := range snapshot.Origins {
		origins = append(origins, origin)
	}
	sort.Strings(origins)

	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil {
			continue
		}
		j.SetCookies(u, snapshot.Origins[origin])
	}
	return nil
}
