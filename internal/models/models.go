// Package models defines the client-side data model shared by the Tia
// coordinators: collections, documents, chat messages, saved sessions,
// the authenticated identity, and user settings.
package models

import (
	"fmt"
	"time"
)

// DocumentType is the coarse type tag derived from a file extension.
type DocumentType string

const (
	DocumentTypePDF        DocumentType = "PDF"
	DocumentTypeWord       DocumentType = "Word"
	DocumentTypeExcel      DocumentType = "Excel"
	DocumentTypePowerPoint DocumentType = "PowerPoint"
	DocumentTypeImage      DocumentType = "Image"
	DocumentTypeText       DocumentType = "Text"
)

// ProcessingStatus is the lifecycle stage of a document on the backend.
// Transitions only move forward: pending -> processing -> completed|error.
// A re-upload of the same name is a new logical document, not a reset.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusError      ProcessingStatus = "error"
)

// Document is a single uploaded file tracked inside a collection.
// ID is the backend filename, which the backend keeps unique per user.
type Document struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      DocumentType     `json:"type"`
	SizeBytes int64            `json:"size_bytes"`
	SizeLabel string           `json:"size_label"`
	Pages     int              `json:"pages"`
	AddedAt   time.Time        `json:"added_at"`
	Preview   string           `json:"preview,omitempty"`
	Status    ProcessingStatus `json:"status"`
}

// IsProcessed reports whether the document is ready to answer questions from.
func (d Document) IsProcessed() bool {
	return d.Status == StatusCompleted
}

// Collection is a user-named grouping of documents. A document belongs to
// exactly one collection; moving between collections is delete + re-upload.
type Collection struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	SizeBytes     int64      `json:"size_bytes"`
	DocumentCount int        `json:"document_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Documents     []Document `json:"documents"`
}

// SizeLabel renders the aggregate collection size for display.
func (c Collection) SizeLabel() string {
	return FormatSize(c.SizeBytes)
}

// MessageRole is the author of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Source is a backend-reported citation attached to an assistant message.
type Source struct {
	Filename     string `json:"filename"`
	Page         int    `json:"page,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
	SectionTitle string `json:"section_title,omitempty"`
	Preview      string `json:"preview,omitempty"`
}

// ChatMessage is one entry in the append-only chat log.
type ChatMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Sources   []Source    `json:"sources,omitempty"`
}

// SavedSession is a named snapshot of a chat log, stored locally and never
// auto-expired.
type SavedSession struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"created_at"`
	Messages  []ChatMessage `json:"messages"`
}

// Role is the access level granted to an identity.
type Role string

const (
	RoleReader Role = "reader"
	RoleAdmin  Role = "admin"
)

// Identity is the authenticated user scoping every backend operation.
// It is persisted locally and survives restarts until logout.
type Identity struct {
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role"`
}

// Settings holds user-facing preferences persisted locally. Any field that
// fails to load falls back to its default.
type Settings struct {
	FontSize       int    `json:"font_size"`
	Language       string `json:"language"`
	Theme          string `json:"theme"`
	ShareAnalytics bool   `json:"share_analytics"`
}

// DefaultSettings returns the settings used when nothing (or garbage) is
// persisted.
func DefaultSettings() Settings {
	return Settings{
		FontSize:       14,
		Language:       "en",
		Theme:          "light",
		ShareAnalytics: false,
	}
}

// FormatSize renders a byte count as a short human-readable string.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
