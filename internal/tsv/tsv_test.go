package tsv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Write(Record{Paragraph: 0, Text: "Alice", Label: "PERSON", Start: 0, End: 5}))
	require.NoError(t, w.Write(Record{Paragraph: 3, Text: "New York", Label: "GPE", Start: 12, End: 20}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "0\tAlice\tPERSON\t0\t5\n3\tNew York\tGPE\t12\t20\n", buf.String())
	assert.Equal(t, 2, w.Rows())
}

func TestWriterQuotesAwkwardFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	rec := Record{Paragraph: 1, Text: "White\nRabbit", Label: "PER\tSON", Start: 4, End: 16}
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Flush())

	assert.True(t, strings.HasPrefix(buf.String(), "1\t\"White\nRabbit\"\t\"PER\tSON\"\t4\t16"))

	back, err := ReadAll(&buf)
	require.NoError(t, err)
	assert.Equal(t, []Record{rec}, back)
}

func TestReadAllRejectsMalformedRows(t *testing.T) {
	_, err := ReadAll(strings.NewReader("x\tAlice\tPERSON\t0\t5\n"))
	assert.Error(t, err)

	_, err = ReadAll(strings.NewReader("0\tAlice\tPERSON\t0\n"))
	assert.Error(t, err)
}
