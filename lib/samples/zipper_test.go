package samples

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"judgetools/lib/judge"
)

func TestZipperPairsInOrder(t *testing.T) {
	z := &Zipper{}
	z.Add("1 2\n", "Sample Input 1")
	z.Add("3\n", "Sample Output 1")
	z.Add("10 20\n", "Sample Input 2")
	z.Add("30\n", "Sample Output 2")

	want := []judge.TestCase{
		{Name: "Sample Input 1", Input: "1 2\n", Output: "3\n"},
		{Name: "Sample Input 2", Input: "10 20\n", Output: "30\n"},
	}
	require.Empty(t, cmp.Diff(want, z.Pairs()))
}

func TestZipperYieldsFloorHalf(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 4, 5, 9} {
		t.Run(fmt.Sprintf("%d blocks", n), func(t *testing.T) {
			z := &Zipper{}
			for i := 0; i < n; i++ {
				z.Add(fmt.Sprintf("%d\n", i), "")
			}
			require.Len(t, z.Pairs(), n/2)
		})
	}
}

func TestZipperNormalizes(t *testing.T) {
	z := &Zipper{}
	z.Add("1 2\r\n3 4", "Input")
	z.Add("7\r\n", "Output")

	pairs := z.Pairs()
	require.Len(t, pairs, 1)
	require.Equal(t, "1 2\n3 4\n", pairs[0].Input)
	require.Equal(t, "7\n", pairs[0].Output)
}

func TestZipperFallbackNames(t *testing.T) {
	z := &Zipper{}
	z.Add("a\n", "")
	z.Add("b\n", "")
	z.Add("c\n", "")
	z.Add("d\n", "")

	pairs := z.Pairs()
	require.Len(t, pairs, 2)
	require.Equal(t, "sample-1", pairs[0].Name)
	require.Equal(t, "sample-2", pairs[1].Name)
}

func TestZipperDanglingLeftover(t *testing.T) {
	z := &Zipper{}
	z.Add("1\n", "Input 1")
	z.Add("2\n", "Output 1")
	z.Add("3\n", "Input 2")

	// the incomplete trailing block is dropped, the complete pair stays
	pairs := z.Pairs()
	require.Len(t, pairs, 1)
	require.Equal(t, "1\n", pairs[0].Input)
	require.Equal(t, "2\n", pairs[0].Output)
}

func TestZipperMislabeledBlocks(t *testing.T) {
	// labels that contradict position do not change the pairing
	z := &Zipper{}
	z.Add("in\n", "出力例 1")
	z.Add("out\n", "入力例 1")

	pairs := z.Pairs()
	require.Len(t, pairs, 1)
	require.Equal(t, "in\n", pairs[0].Input)
	require.Equal(t, "out\n", pairs[0].Output)
	require.Equal(t, "出力例 1", pairs[0].Name)
}
