package batch

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UCREL/HEC/internal/paragraph"
)

func corpus(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "paragraph %d\nsecond line\n\n", i)
	}
	return b.String()
}

func collect(t *testing.T, input string, size int) []Batch {
	t.Helper()
	b, err := New(paragraph.NewScanner(strings.NewReader(input)), size)
	require.NoError(t, err)
	var out []Batch
	for b.Next() {
		out = append(out, b.Batch())
	}
	require.NoError(t, b.Err())
	return out
}

func TestValidateRejectsNonPositiveSizes(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		err := Validate(size)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)

		_, err = New(paragraph.NewScanner(strings.NewReader("x")), size)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	}
	assert.NoError(t, Validate(1))
}

func TestNewRejectsNilSource(t *testing.T) {
	_, err := New(nil, 3)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestBatchCountAndShape(t *testing.T) {
	for _, n := range []int{0, 1, 7, 10, 23} {
		n := n
		for _, size := range []int{1, 2, 3, 10, 50} {
			size := size
			t.Run(fmt.Sprintf("n=%d/size=%d", n, size), func(t *testing.T) {
				batches := collect(t, corpus(n), size)

				want := (n + size - 1) / size
				require.Len(t, batches, want)
				for i, b := range batches {
					if i < len(batches)-1 {
						assert.Len(t, b, size)
					} else {
						assert.LessOrEqual(t, len(b), size)
						assert.NotEmpty(t, b)
					}
				}
			})
		}
	}
}

func TestConcatenationReproducesParagraphs(t *testing.T) {
	input := corpus(17)
	want, err := paragraph.ReadAll(strings.NewReader(input))
	require.NoError(t, err)

	for size := 1; size <= 20; size++ {
		var got []paragraph.Paragraph
		for _, b := range collect(t, input, size) {
			got = append(got, b...)
		}
		assert.Equal(t, want, got, "size %d", size)
	}
}

func TestOversizedBatchHoldsEverything(t *testing.T) {
	batches := collect(t, corpus(4), 100)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 4)
	assert.Equal(t, []string{
		"paragraph 0\nsecond line\n",
		"paragraph 1\nsecond line\n",
		"paragraph 2\nsecond line\n",
		"paragraph 3\nsecond line\n",
	}, batches[0].Texts())
}

type erroringSource struct {
	remaining int
}

func (s *erroringSource) Scan() bool {
	if s.remaining == 0 {
		return false
	}
	s.remaining--
	return true
}

func (s *erroringSource) Paragraph() paragraph.Paragraph { return paragraph.Paragraph{Text: "p\n"} }
func (s *erroringSource) Err() error                     { return errors.New("read failed") }

func TestSourceErrorStopsBatching(t *testing.T) {
	b, err := New(&erroringSource{remaining: 3}, 2)
	require.NoError(t, err)

	require.True(t, b.Next())
	assert.Len(t, b.Batch(), 2)

	assert.False(t, b.Next())
	require.Error(t, b.Err())
	assert.False(t, b.Next())
}
