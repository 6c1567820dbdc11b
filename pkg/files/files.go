// Package files stores uploaded onboarding documents on local disk and
// hands back the public URL they will be served under.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"washride/pkg/apperr"
)

var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

type Store struct {
	dir     string
	baseURL string
}

func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes data under a fresh uuid name and returns its public URL.
// Content types outside the allow-list (JPEG, PNG, PDF) are rejected.
func (s *Store) Save(data []byte, contentType string, ownerID int64) (string, error) {
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", apperr.New(apperr.Validation, fmt.Sprintf("unsupported content type %q", contentType))
	}

	name := fmt.Sprintf("%d_%s%s", ownerID, uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", apperr.Wrap(apperr.Internal, "failed to store file", err)
	}
	return s.baseURL + "/uploads/" + name, nil
}

func (s *Store) Dir() string { return s.dir }
