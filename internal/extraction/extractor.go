// Package extraction asks a vision model to read an uploaded document and
// turns its answer into a models.DocumentCandidate.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"admission-workers/internal/models"
)

var (
	ErrEmptyDocument        = errors.New("document is empty")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrEmptyResponse        = errors.New("model returned no content")
)

// Extractor reads one uploaded file.
type Extractor interface {
	Analyze(ctx context.Context, file []byte, mediaType string) (*models.DocumentCandidate, error)
}

// OutputError means the model answered with something that is not a valid
// candidate.
type OutputError struct {
	Problems []string
}

func (e *OutputError) Error() string {
	return "invalid extraction output: " + strings.Join(e.Problems, "; ")
}

var supportedMediaTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"image/heic":      {},
	"image/heif":      {},
}

// NormalizeMediaType strips parameters and checks the type is one the model reads.
func NormalizeMediaType(mediaType string) (string, error) {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "image/jpg" {
		mt = "image/jpeg"
	}
	if _, ok := supportedMediaTypes[mt]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
	}
	return mt, nil
}

// ParseCandidate decodes a model answer. Markdown code fences around the JSON
// are tolerated.
func ParseCandidate(raw []byte) (*models.DocumentCandidate, error) {
	raw = stripFences(raw)
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}

	if result := candidateSchema.ValidateJSON(raw); !result.Valid {
		return nil, &OutputError{Problems: result.GetErrorMessages()}
	}

	var candidate models.DocumentCandidate
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return nil, &OutputError{Problems: []string{err.Error()}}
	}
	if err := candidate.Variant(); err != nil {
		return nil, &OutputError{Problems: []string{err.Error()}}
	}
	normalize(&candidate)
	return &candidate, nil
}

func stripFences(raw []byte) []byte {
	raw = bytes.TrimSpace(raw)
	if !bytes.HasPrefix(raw, []byte("```")) {
		return raw
	}
	raw = raw[3:]
	if nl := bytes.IndexByte(raw, '\n'); nl >= 0 {
		raw = raw[nl+1:]
	}
	raw = bytes.TrimSuffix(bytes.TrimSpace(raw), []byte("```"))
	return bytes.TrimSpace(raw)
}

// normalize replaces absent lists with empty ones.
func normalize(c *models.DocumentCandidate) {
	if c.Academic == nil {
		return
	}
	if c.Academic.Subjects == nil {
		c.Academic.Subjects = []models.Subject{}
	}
	if c.Academic.UnreadableGrades == nil {
		c.Academic.UnreadableGrades = []string{}
	}
}
