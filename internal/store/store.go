// Package store holds the in-memory collection/document state shared by the
// coordinators. It is the single source of truth for what the user sees;
// every mutation goes through a method here, serialized by one mutex, so the
// coordinators never interleave half-applied updates.
package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tiadocs/tia/internal/models"
)

var (
	// ErrCollectionNotFound is returned when a collection id is unknown.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrCollectionExists is returned when creating a collection whose name
	// is already taken.
	ErrCollectionExists = errors.New("collection already exists")
)

// Store is an in-memory registry of collections. Safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	collections map[string]*models.Collection
	order       []string

	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		collections: make(map[string]*models.Collection),
		now:         time.Now,
	}
}

// CreateCollection registers a new, empty collection and returns a copy.
// Names are unique case-insensitively.
func (s *Store) CreateCollection(name string) (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.collections {
		if strings.EqualFold(c.Name, name) {
			return models.Collection{}, ErrCollectionExists
		}
	}

	now := s.now()
	c := &models.Collection{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.collections[c.ID] = c
	s.order = append(s.order, c.ID)
	return copyCollection(c), nil
}

// RenameCollection changes the display name of an existing collection.
func (s *Store) RenameCollection(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[id]
	if !ok {
		return ErrCollectionNotFound
	}
	c.Name = name
	c.UpdatedAt = s.now()
	return nil
}

// DeleteCollection removes a collection and all its documents in one step.
// Deleting an unknown id is a no-op.
func (s *Store) DeleteCollection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[id]; !ok {
		return
	}
	delete(s.collections, id)
	for i, cid := range s.order {
		if cid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Get returns a copy of the collection with the given id.
func (s *Store) Get(id string) (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[id]
	if !ok {
		return models.Collection{}, ErrCollectionNotFound
	}
	return copyCollection(c), nil
}

// FindByName returns a copy of the collection with the given display name.
func (s *Store) FindByName(name string) (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.collections {
		if strings.EqualFold(c.Name, name) {
			return copyCollection(c), nil
		}
	}
	return models.Collection{}, ErrCollectionNotFound
}

// Collections lists all collections in creation order.
func (s *Store) Collections() []models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Collection, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyCollection(s.collections[id]))
	}
	return out
}

// UpsertDocument merges a document into a collection. A document with the
// same display name replaces the existing one in place; otherwise the
// document is appended. DocumentCount is recomputed on every mutation.
func (s *Store) UpsertDocument(collectionID string, doc models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collectionID]
	if !ok {
		return ErrCollectionNotFound
	}

	replaced := false
	for i, d := range c.Documents {
		if d.Name == doc.Name {
			c.Documents[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		c.Documents = append(c.Documents, doc)
	}
	s.recount(c)
	return nil
}

// RemoveDocument deletes a document by name from a collection. Removing an
// absent document is a no-op; the count never goes below zero.
func (s *Store) RemoveDocument(collectionID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collectionID]
	if !ok {
		return ErrCollectionNotFound
	}

	for i, d := range c.Documents {
		if d.Name == name {
			c.Documents = append(c.Documents[:i], c.Documents[i+1:]...)
			break
		}
	}
	s.recount(c)
	return nil
}

// Rehydrate replaces the document list of a collection wholesale, sorted by
// name for a stable display order. Used when rebuilding local state from the
// backend listing at session start.
func (s *Store) Rehydrate(collectionID string, docs []models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collectionID]
	if !ok {
		return ErrCollectionNotFound
	}

	c.Documents = append([]models.Document(nil), docs...)
	sort.Slice(c.Documents, func(i, j int) bool {
		return c.Documents[i].Name < c.Documents[j].Name
	})
	s.recount(c)
	return nil
}

// recount restores the count/size/updated invariants after a mutation.
// Callers must hold s.mu.
func (s *Store) recount(c *models.Collection) {
	c.DocumentCount = len(c.Documents)
	if c.DocumentCount < 0 {
		c.DocumentCount = 0
	}
	var size int64
	for _, d := range c.Documents {
		size += d.SizeBytes
	}
	c.SizeBytes = size
	c.UpdatedAt = s.now()
}

func copyCollection(c *models.Collection) models.Collection {
	out := *c
	out.Documents = append([]models.Document(nil), c.Documents...)
	return out
}

