package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

var pdfMagic = []byte("%PDF")

// CVStatus reports whether a CV is stored.
type CVStatus struct {
	Exists bool `json:"exists"`
}

type uploadResult struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// CheckPDF verifies that name and content look like a PDF document.
func CheckPDF(name string, content []byte) error {
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return fmt.Errorf("%w: %s has no .pdf extension", ErrNotPDF, filepath.Base(name))
	}
	if !bytes.HasPrefix(content, pdfMagic) {
		return fmt.Errorf("%w: %s is not a PDF file", ErrNotPDF, filepath.Base(name))
	}
	return nil
}

// CVStatus asks whether a CV has been uploaded.
func (c *Client) CVStatus(ctx context.Context) (*CVStatus, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/cv/status", nil)
	if errors.Is(err, ErrNotFound) {
		return &CVStatus{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking cv: %w", err)
	}
	return decodeOne[CVStatus](data)
}

// UploadCV replaces the stored CV with content.
func (c *Client) UploadCV(ctx context.Context, name string, content []byte) error {
	if err := CheckPDF(name, content); err != nil {
		return err
	}
	r := c.http.R().
		SetContext(ctx).
		SetFileBytes("cv", filepath.Base(name), content)
	data, err := c.send(r, http.MethodPost, "/api/cv/upload")
	if err != nil {
		return fmt.Errorf("uploading cv: %w", err)
	}
	res, err := decodeOne[uploadResult](data)
	if err != nil {
		// a bare 2xx without a body is a success
		if errors.Is(err, ErrEmptyResponse) {
			return nil
		}
		return fmt.Errorf("uploading cv: %w", err)
	}
	if res.Success != nil && !*res.Success {
		return fmt.Errorf("uploading cv: %s", res.Message)
	}
	return nil
}

// DownloadCV writes the stored CV to w.
func (c *Client) DownloadCV(ctx context.Context, w io.Writer) (int64, error) {
	data, err := c.send(c.http.R().SetContext(ctx).SetHeader("Accept", "application/pdf"), http.MethodGet, "/api/cv")
	if err != nil {
		return 0, fmt.Errorf("downloading cv: %w", err)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return 0, fmt.Errorf("downloading cv: %w", ErrNotPDF)
	}
	n, err := w.Write(data)
	return int64(n), err
}

// DeleteCV removes the stored CV.
func (c *Client) DeleteCV(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodDelete, "/api/cv", nil); err != nil {
		return fmt.Errorf("deleting cv: %w", err)
	}
	return nil
}
