package forms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"judgetools/lib/session"
)

const loginPage = `
<html><body>
<form action="/login" method="post">
	<input type="hidden" name="csrf_token" value="tok123" />
	<input type="text" name="name" />
	<input type="password" name="password" />
	<input type="submit" value="Sign in" />
</form>
</body></html>
`

func parseForm(t *testing.T, page, pageURL string) *Form {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	base, err := url.Parse(pageURL)
	require.NoError(t, err)

	f, err := New(doc.Find("form"), base)
	require.NoError(t, err)
	return f
}

func TestNewCollectsDefaults(t *testing.T) {
	f := parseForm(t, loginPage, "https://judge.example.com/enter")

	// hidden token is inherited; the nameless submit button and the
	// value-less text inputs are not
	require.Equal(t, url.Values{"csrf_token": []string{"tok123"}}, f.Payload())
}

func TestNewRejectsNonForms(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div><p>hi</p></div>`))
	require.NoError(t, err)
	base, err := url.Parse("https://judge.example.com/")
	require.NoError(t, err)

	_, err = New(doc.Find("p"), base)
	require.ErrorIs(t, err, ErrNotAForm)

	_, err = New(doc.Find("form"), base)
	require.ErrorIs(t, err, ErrNotAForm)
}

func TestSetOverridesDefaults(t *testing.T) {
	f := parseForm(t, loginPage, "https://judge.example.com/enter")
	f.Set("csrf_token", "newer")
	f.Set("name", "alice")
	f.Set("name", "bob")

	require.Equal(t, "newer", f.Payload().Get("csrf_token"))
	require.Equal(t, "bob", f.Payload().Get("name"))
}

func TestTargetURL(t *testing.T) {
	for _, tt := range []struct {
		name    string
		action  string
		pageURL string
		want    string
	}{
		{
			name:    "relative",
			action:  "/login",
			pageURL: "https://judge.example.com/contests/abc/enter",
			want:    "https://judge.example.com/login",
		},
		{
			name:    "absolute",
			action:  "https://auth.example.com/session",
			pageURL: "https://judge.example.com/enter",
			want:    "https://auth.example.com/session",
		},
		{
			name:    "empty resolves to the page itself",
			action:  "",
			pageURL: "https://judge.example.com/enter",
			want:    "https://judge.example.com/enter",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			page := `<form action="` + tt.action + `" method="post"></form>`
			f := parseForm(t, page, tt.pageURL)
			got, err := f.TargetURL()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSubmit(t *testing.T) {
	var gotMethod string
	var gotForm url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/enter", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(loginPage))
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := parseForm(t, loginPage, server.URL+"/enter")
	f.Set("name", "alice")
	f.Set("password", "hunter2")

	s, err := session.New()
	require.NoError(t, err)

	res, err := f.Submit(context.Background(), s, session.RequestOptions{})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, url.Values{
		"csrf_token": []string{"tok123"},
		"name":       []string{"alice"},
		"password":   []string{"hunter2"},
	}, gotForm)
}
