package labelstats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLabels = []string{"joy", "anger", "neutral"}

const testSplit = "I am happy\t0\teeibzbm\n" +
	"So angry and glad\t0,1\teeibzbn\n" +
	"meh\t2\teeibzbo\n" +
	"She said \"hi\" twice\t0\teeibzbp\n"

func TestCompute(t *testing.T) {
	r, err := Compute(strings.NewReader(testSplit), testLabels, WithSplit("train"))
	require.NoError(t, err)

	assert.Equal(t, "train", r.Split)
	assert.Equal(t, 4, r.Texts)
	assert.Equal(t, Label{Name: "joy", Count: 3, Multi: 1}, r.Labels[0])
	assert.Equal(t, Label{Name: "anger", Count: 1, Multi: 1}, r.Labels[1])
	assert.Equal(t, Label{Name: "neutral", Count: 1}, r.Labels[2])

	assert.InDelta(t, 75.0, r.Labels[0].TextPercent(r.Texts), 1e-9)
	assert.InDelta(t, 100.0/3, r.Labels[0].MultiPercent(), 1e-9)
	assert.Zero(t, r.Labels[2].MultiPercent())
}

func TestFormatMatchesPlainLayout(t *testing.T) {
	r, err := Compute(strings.NewReader(testSplit), testLabels)
	require.NoError(t, err)

	want := "joy, 3, 75.00%, 33.33% \n" +
		"anger, 1, 25.00%, 100.00% \n" +
		"neutral, 1, 25.00%, 0.00% \n" +
		"Text count: 4"
	assert.Equal(t, want, Format(r))
}

func TestRenderIncludesEveryLabel(t *testing.T) {
	r, err := Compute(strings.NewReader(testSplit), testLabels, WithSplit("dev"))
	require.NoError(t, err)

	out := Render(r)
	assert.Contains(t, out, "dev label statistics")
	for _, name := range testLabels {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "75.00")
	assert.Contains(t, out, "Text count: 4")
}

func TestComputeErrors(t *testing.T) {
	_, err := Compute(strings.NewReader("text\t\tid\n"), testLabels)
	assert.ErrorIs(t, err, ErrNoLabels)

	_, err = Compute(strings.NewReader("text only\n"), testLabels)
	assert.ErrorIs(t, err, ErrNoLabels)

	_, err = Compute(strings.NewReader("text\t7\tid\n"), testLabels)
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, err = Compute(strings.NewReader("text\tx\tid\n"), testLabels)
	assert.Error(t, err)
}

func TestExpectAll(t *testing.T) {
	split := "a\t0\t1\nb\t1\t2\n"
	_, err := Compute(strings.NewReader(split), testLabels, ExpectAll())
	require.ErrorIs(t, err, ErrMissingLabels)
	assert.Contains(t, err.Error(), "neutral")

	_, err = Compute(strings.NewReader(split), testLabels)
	assert.NoError(t, err)
}

func TestLoadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emotions.txt")
	require.NoError(t, os.WriteFile(path, []byte("joy\nanger \nneutral\n\n"), 0o644))

	labels, err := LoadLabels(path)
	require.NoError(t, err)
	assert.Equal(t, testLabels, labels)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = LoadLabels(empty)
	assert.Error(t, err)
}

func TestComputeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.tsv")
	require.NoError(t, os.WriteFile(path, []byte(testSplit), 0o644))
	r, err := ComputeFile(path, testLabels)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Texts)

	_, err = ComputeFile(filepath.Join(t.TempDir(), "missing.tsv"), testLabels)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
