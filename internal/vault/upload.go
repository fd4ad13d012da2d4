package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// CategoryOther requires a custom category name.
const CategoryOther = "other"

// Categories lists the categories offered for uploads.
func Categories() []string {
	return []string{
		"aadhaar",
		"pan",
		"id proof",
		"insurance docs",
		"school marksheets",
		"college marksheets",
		"asset docs",
		CategoryOther,
	}
}

// IsKnownCategory reports whether name is one of Categories, ignoring case.
func IsKnownCategory(name string) bool {
	return slices.Contains(Categories(), strings.ToLower(strings.TrimSpace(name)))
}

// UploadFile is one local file to upload. Name is the name reported to the
// backend and defaults to the base name of Path.
type UploadFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// StatUploadFile reads size and modification time of a local file.
func StatUploadFile(path string) (UploadFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return UploadFile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return UploadFile{}, fmt.Errorf("%w: %s is a directory", ErrInvalidUpload, path)
	}
	return UploadFile{
		Path:    path,
		Name:    filepath.Base(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (f UploadFile) displayName() string {
	if name := strings.TrimSpace(f.Name); name != "" {
		return name
	}
	return filepath.Base(f.Path)
}

func (f UploadFile) dedupeKey() string {
	return fmt.Sprintf("%s|%d|%d", f.displayName(), f.Size, f.ModTime.UnixMilli())
}

// DedupeFiles drops files with the same name, size and modification time as an
// earlier entry, keeping the first occurrence.
func DedupeFiles(files []UploadFile) []UploadFile {
	seen := make(map[string]struct{}, len(files))
	out := make([]UploadFile, 0, len(files))
	for _, f := range files {
		key := f.dedupeKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

// UploadRequest is a batch upload sharing one description and category.
type UploadRequest struct {
	Files          []UploadFile
	Description    string
	Category       string
	CustomCategory string
}

// Validate checks the request before anything is sent.
func (r UploadRequest) Validate() error {
	if len(r.Files) == 0 {
		return fmt.Errorf("%w: no files selected", ErrInvalidUpload)
	}
	category := strings.TrimSpace(r.Category)
	if category == "" {
		return fmt.Errorf("%w: category is required (one of %s)",
			ErrInvalidUpload, strings.Join(Categories(), ", "))
	}
	if strings.EqualFold(category, CategoryOther) && strings.TrimSpace(r.CustomCategory) == "" {
		return fmt.Errorf("%w: enter your custom category to upload", ErrInvalidUpload)
	}
	return nil
}

// SentCategory is the category reported to the backend: the custom one when the
// category is "other".
func (r UploadRequest) SentCategory() string {
	if strings.EqualFold(strings.TrimSpace(r.Category), CategoryOther) {
		return strings.TrimSpace(r.CustomCategory)
	}
	return strings.TrimSpace(r.Category)
}

// FileNames returns the names reported for each file, in order.
func (r UploadRequest) FileNames() []string {
	names := make([]string, len(r.Files))
	for i, f := range r.Files {
		names[i] = f.displayName()
	}
	return names
}

// ShareRequest shares one file with another user.
type ShareRequest struct {
	FileID            int64  `json:"fileId"`
	RecipientUsername string `json:"recipientUsername"`
	IsSensitive       *bool  `json:"isSensitive"`
}

// Validate requires a file, a recipient and an explicit sensitivity choice.
func (r ShareRequest) Validate() error {
	switch {
	case r.FileID <= 0:
		return fmt.Errorf("%w: file id is required", ErrInvalidShare)
	case strings.TrimSpace(r.RecipientUsername) == "":
		return fmt.Errorf("%w: recipient username is required", ErrInvalidShare)
	case r.IsSensitive == nil:
		return fmt.Errorf("%w: choose whether the file is sensitive", ErrInvalidShare)
	}
	return nil
}

// ShareResponse is the backend reply to a share.
type ShareResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
