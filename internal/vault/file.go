package vault

import (
	"strings"
	"time"

	"github.com/rshade/vaultctl/internal/listing"
)

// File is one record of any listing collection. Own files carry a description and
// creation time; received and shared files carry the sender, receiver and
// sensitivity flag.
type File struct {
	ID           int64  `json:"id"                     yaml:"id"`
	Filename     string `json:"filename"               yaml:"filename"`
	Description  string `json:"description,omitempty"  yaml:"description,omitempty"`
	Category     string `json:"category"               yaml:"category"`
	CreatedAt    string `json:"createdAt,omitempty"    yaml:"created_at,omitempty"`
	SenderName   string `json:"senderName,omitempty"   yaml:"sender_name,omitempty"`
	ReceiverName string `json:"receiverName,omitempty" yaml:"receiver_name,omitempty"`
	IsSensitive  *bool  `json:"isSensitive,omitempty"  yaml:"is_sensitive,omitempty"`
}

// Sensitivity implements listing.Classified. Records without the flag (own files)
// are SensitivityUnknown.
func (f File) Sensitivity() listing.Sensitivity {
	return listing.SensitivityOf(f.IsSensitive)
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Created parses CreatedAt. The backend sends local timestamps without a zone;
// those are read as UTC.
func (f File) Created() (time.Time, bool) {
	s := strings.TrimSpace(f.CreatedAt)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// pageResponse is the listing response body. Older endpoints name the record
// list fetchFiles, newer ones records.
type pageResponse struct {
	FetchFiles    []File `json:"fetchFiles"`
	Records       []File `json:"records"`
	PageNumber    int    `json:"pageNumber"`
	PageSize      int    `json:"pageSize"`
	TotalElements int    `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	LastPage      bool   `json:"lastPage"`
}

func (r pageResponse) result() listing.PagedResult[File] {
	records := r.FetchFiles
	if records == nil {
		records = r.Records
	}
	if records == nil {
		records = []File{}
	}
	return listing.PagedResult[File]{
		Records: records,
		Metadata: listing.PageMetadata{
			PageNumber:    r.PageNumber,
			PageSize:      r.PageSize,
			TotalElements: r.TotalElements,
			TotalPages:    r.TotalPages,
			LastPage:      r.LastPage,
		},
	}
}
