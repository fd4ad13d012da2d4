package vault

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const (
	uploadPath   = "/api/auth/files/upload"
	downloadPath = "/api/auth/files/download/"
	deletePath   = "/api/auth/files/delete/"
	sharePath    = "/api/share"
)

// Upload sends every file of req in one multipart request (field "files").
// Duplicate files are dropped first.
func (c *Client) Upload(ctx context.Context, req UploadRequest) error {
	req.Files = DedupeFiles(req.Files)
	if err := req.Validate(); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("files", strings.Join(req.FileNames(), ","))
	query.Set("description", req.Description)
	query.Set("category", req.SentCategory())

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadParts(mw, req.Files))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(uploadPath, query), pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return fmt.Errorf("creating upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(httpReq)
	if err != nil {
		_ = pr.CloseWithError(err)
		return fmt.Errorf("uploading %d file(s): %w", len(req.Files), err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func writeUploadParts(mw *multipart.Writer, files []UploadFile) error {
	for _, f := range files {
		if err := writeUploadPart(mw, f); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writeUploadPart(mw *multipart.Writer, f UploadFile) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer src.Close()

	part, err := mw.CreateFormFile("files", f.displayName())
	if err != nil {
		return fmt.Errorf("creating form part for %s: %w", f.Path, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("streaming %s: %w", f.Path, err)
	}
	return nil
}

// Download streams the content of file id into w and returns the byte count.
func (c *Client) Download(ctx context.Context, id int64, w io.Writer) (int64, error) {
	path := downloadPath + strconv.FormatInt(id, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, nil), http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("creating download request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("downloading file %d: %w", id, err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("writing file %d: %w", id, err)
	}
	return n, nil
}

// Delete removes one of the user's own files.
func (c *Client) Delete(ctx context.Context, id int64) error {
	path := deletePath + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("deleting file %d: %w", id, err)
	}
	return nil
}

// Share shares a file with another user. A reply with success=false is returned
// as ErrShareRejected carrying the backend message.
func (c *Client) Share(ctx context.Context, req ShareRequest) (ShareResponse, error) {
	if err := req.Validate(); err != nil {
		return ShareResponse{}, err
	}
	req.RecipientUsername = strings.TrimSpace(req.RecipientUsername)

	var out ShareResponse
	if err := c.doJSON(ctx, http.MethodPost, sharePath, nil, req, &out); err != nil {
		return ShareResponse{}, fmt.Errorf("sharing file %d: %w", req.FileID, err)
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = "failed to share file"
		}
		return out, fmt.Errorf("%w: %s", ErrShareRejected, msg)
	}
	return out, nil
}
