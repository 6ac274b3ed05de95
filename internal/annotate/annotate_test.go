package annotate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncAdapter(t *testing.T) {
	var a Annotator = Func(func(ctx context.Context, texts []string) ([]Document, error) {
		docs := make([]Document, len(texts))
		for i, text := range texts {
			docs[i] = Document{Text: text}
		}
		return docs, nil
	})

	docs, err := a.Annotate(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "func", a.Name())
	assert.NoError(t, a.Close())
}

func TestEntityValidate(t *testing.T) {
	assert.NoError(t, Entity{Start: 0, End: 0}.Validate())
	assert.NoError(t, Entity{Start: 3, End: 9}.Validate())
	assert.ErrorIs(t, Entity{Start: -1, End: 2}.Validate(), ErrInvalidEntity)
	assert.ErrorIs(t, Entity{Start: 5, End: 2}.Validate(), ErrInvalidEntity)
}
