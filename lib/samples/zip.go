package samples

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"

	"github.com/klauspost/compress/zip"

	"judgetools/lib/judge"
	"judgetools/lib/textutil"
)

// PairZip extracts test cases from a judge's testcase archive: plain-text
// files whose names sort so each input comes immediately before its
// matching output ("test_in/1.txt" < "test_out/1.txt"), paired by base
// file name.
func PairZip(data []byte) ([]judge.TestCase, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open testcase archive: %w", err)
	}

	files := make([]*zip.File, 0, len(archive.File))
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	grouped := map[string][]string{}
	order := []string{}
	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("read %q from archive: %w", f.Name, err)
		}
		contents, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %q from archive: %w", f.Name, err)
		}

		base := path.Base(f.Name)
		if _, seen := grouped[base]; !seen {
			order = append(order, base)
		}
		grouped[base] = append(grouped[base], textutil.Dos2Unix(string(contents)))
	}
	sort.Strings(order)

	var cases []judge.TestCase
	for _, base := range order {
		group := grouped[base]
		if len(group) != 2 {
			slog.Warn("testcase file without a matching pair", "name", base, "count", len(group))
			continue
		}
		cases = append(cases, judge.TestCase{
			Name:   base,
			Input:  group[0],
			Output: group[1],
		})
	}
	return cases, nil
}
