package yukicoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"judgetools/lib/session"
)

func TestSubmissionFromURL(t *testing.T) {
	for _, tt := range []struct {
		url    string
		wantID int
	}{
		{"https://yukicoder.me/submissions/314159", 314159},
		{"http://yukicoder.me/submissions/1/", 1},
		{"https://yukicoder.me/submissions/", 0},
		{"https://yukicoder.me/problems/no/9", 0},
		{"https://atcoder.jp/submissions/1", 0},
	} {
		s := SubmissionFromURL(tt.url)
		if tt.wantID == 0 {
			require.Nil(t, s, tt.url)
			continue
		}
		require.NotNil(t, s, tt.url)
		require.Equal(t, tt.wantID, s.SubmissionID, tt.url)
	}
}

func TestSubmissionURLRoundTrip(t *testing.T) {
	s := NewSubmission(314159)
	require.Equal(t, "https://yukicoder.me/submissions/314159", s.URL())

	again := SubmissionFromURL(s.URL())
	require.NotNil(t, again)
	require.Equal(t, s.SubmissionID, again.SubmissionID)
}

func TestDownloadSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/submissions/314159", r.URL.Path)
		w.Write([]byte(`<html><body><pre id="code">print(1 + 2)
</pre></body></html>`))
	}))
	defer server.Close()
	overrideBaseURL(t, server.URL)

	s, err := session.New()
	require.NoError(t, err)

	source, err := NewSubmission(314159).DownloadSource(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, "print(1 + 2)\n", source)
}

func TestDownloadSourceFallsBackToFirstPre(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><pre>  </pre><pre>puts 42
</pre></body></html>`))
	}))
	defer server.Close()
	overrideBaseURL(t, server.URL)

	s, err := session.New()
	require.NoError(t, err)

	source, err := NewSubmission(1).DownloadSource(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, "puts 42\n", source)
}
