package newsfeed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// Archive stores crawled articles as one JSON file per article in a
// directory.
type Archive struct {
	storageDir string
}

// ReadError describes a failure to read a single article file.
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

// ListResult contains the articles read from the archive together with any
// per-file errors.
type ListResult struct {
	Articles []Article
	Errors   []ReadError
}

// NewArchive opens the archive in storageDir, creating the directory if it
// doesn't exist.
func NewArchive(storageDir string) (*Archive, error) {
	if err := os.MkdirAll(storageDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Archive{storageDir: storageDir}, nil
}

// Add saves an article, keyed by its ID.
func (ar *Archive) Add(article Article) error {
	filename := ar.path(article.ID)

	data, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal article: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write article: %w", err)
	}

	return nil
}

// AddAll saves every article in order, stopping at the first failure.
func (ar *Archive) AddAll(articles []Article) error {
	for _, article := range articles {
		if err := ar.Add(article); err != nil {
			return err
		}
	}
	return nil
}

// List returns all archived articles, newest listing date first. Corrupted
// files are reported in the result's Errors slice instead of failing the
// whole operation; a non-nil error means the directory itself is unreadable.
func (ar *Archive) List() (*ListResult, error) {
	entries, err := os.ReadDir(ar.storageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	result := &ListResult{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(ar.storageDir, entry.Name()))
		if err != nil {
			result.Errors = append(result.Errors, ReadError{Filename: entry.Name(), Err: err})
			continue
		}

		var article Article
		if err := json.Unmarshal(data, &article); err != nil {
			result.Errors = append(result.Errors, ReadError{Filename: entry.Name(), Err: err})
			continue
		}

		result.Articles = append(result.Articles, article)
	}

	sort.SliceStable(result.Articles, func(i, j int) bool {
		return result.Articles[i].Date > result.Articles[j].Date
	})

	return result, nil
}

// Get retrieves an article by ID. It returns nil, nil when no such article
// exists.
func (ar *Archive) Get(id uuid.UUID) (*Article, error) {
	data, err := os.ReadFile(ar.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read article: %w", err)
	}

	var article Article
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, fmt.Errorf("failed to unmarshal article: %w", err)
	}

	return &article, nil
}

func (ar *Archive) path(id uuid.UUID) string {
	return filepath.Join(ar.storageDir, id.String()+".json")
}
