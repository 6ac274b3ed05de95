// internal/fetch/presets.go
package fetch

import (
	"fmt"
	"net/url"
	"strings"
)

// GoEmotionsBaseURL points at a pinned revision of the GoEmotions data.
const GoEmotionsBaseURL = "https://github.com/google-research/google-research/raw/e56477f83f3389390bfb888602bdb71515699378/goemotions/data/"

// GoEmotionsFiles are the dataset splits plus the label list.
var GoEmotionsFiles = []string{"train.tsv", "dev.tsv", "test.tsv", "emotions.txt"}

// HuggingFaceBaseURL is the root used to resolve model repository files.
const HuggingFaceBaseURL = "https://huggingface.co"

// GoEmotions returns the dataset resources served under base. An empty base
// selects GoEmotionsBaseURL.
func GoEmotions(base string) []Resource {
	if base == "" {
		base = GoEmotionsBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	out := make([]Resource, 0, len(GoEmotionsFiles))
	for _, name := range GoEmotionsFiles {
		out = append(out, Resource{Name: name, URL: base + name})
	}
	return out
}

// HuggingFace returns resources for files in a model repository such as
// "bert-base-cased". Revision defaults to "main". The files are treated as
// binary.
func HuggingFace(base, repo, revision string, files []string) ([]Resource, error) {
	repo = strings.Trim(strings.TrimSpace(repo), "/")
	if repo == "" {
		return nil, fmt.Errorf("%w: model repository is required", ErrInvalidResource)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one file is required for %s", ErrInvalidResource, repo)
	}
	if base == "" {
		base = HuggingFaceBaseURL
	}
	if revision == "" {
		revision = "main"
	}

	out := make([]Resource, 0, len(files))
	for _, file := range files {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		u, err := url.JoinPath(base, repo, "resolve", revision, file)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResource, err)
		}
		out = append(out, Resource{Name: file, URL: u, Binary: true})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one file is required for %s", ErrInvalidResource, repo)
	}
	return out, nil
}
