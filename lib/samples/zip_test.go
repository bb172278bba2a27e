package samples

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"judgetools/lib/judge"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, contents := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(contents))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestPairZip(t *testing.T) {
	data := buildZip(t, map[string]string{
		"test_in/1.txt":  "1 2\n",
		"test_out/1.txt": "3\n",
		"test_in/2.txt":  "4 5\n",
		"test_out/2.txt": "9\n",
	})

	cases, err := PairZip(data)
	require.NoError(t, err)

	want := []judge.TestCase{
		{Name: "1.txt", Input: "1 2\n", Output: "3\n"},
		{Name: "2.txt", Input: "4 5\n", Output: "9\n"},
	}
	require.Empty(t, cmp.Diff(want, cases))
}

func TestPairZipSkipsUnpaired(t *testing.T) {
	data := buildZip(t, map[string]string{
		"test_in/1.txt":  "1\n",
		"test_out/1.txt": "2\n",
		"test_in/3.txt":  "orphan\n",
	})

	cases, err := PairZip(data)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Equal(t, "1.txt", cases[0].Name)
}

func TestPairZipNormalizesLineEndings(t *testing.T) {
	data := buildZip(t, map[string]string{
		"in/a.txt":  "1\r\n2\r\n",
		"out/a.txt": "3\r\n",
	})

	cases, err := PairZip(data)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Equal(t, "1\n2\n", cases[0].Input)
	require.Equal(t, "3\n", cases[0].Output)
}

func TestPairZipRejectsGarbage(t *testing.T) {
	_, err := PairZip([]byte("definitely not a zip"))
	require.Error(t, err)
}
