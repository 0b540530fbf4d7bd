// ABOUTME: Multipart file uploads for product images and payment proofs
// ABOUTME: File types are sniffed with mimetype before the upload starts

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/delcarajo/storefront/internal/models"
	"github.com/delcarajo/storefront/internal/validation"
	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadBytes is the largest file the backend accepts
const MaxUploadBytes = 5 << 20

// UploadService sends files to the multipart upload endpoints
type UploadService struct {
	d Doer
}

// Image uploads a product image
func (s *UploadService) Image(ctx context.Context, filename string, r io.Reader) (*models.UploadResult, error) {
	return s.upload(ctx, "/upload/image", filename, r, false)
}

// PaymentProof uploads a transfer receipt; images and PDFs are accepted
func (s *UploadService) PaymentProof(ctx context.Context, filename string, r io.Reader) (*models.UploadResult, error) {
	return s.upload(ctx, "/upload/payment-proof", filename, r, true)
}

func (s *UploadService) upload(ctx context.Context, path, filename string, r io.Reader, allowPDF bool) (*models.UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if len(data) > MaxUploadBytes {
		return nil, validation.NewError("file", "el archivo supera el máximo de 5 MB")
	}

	mt := mimetype.Detect(data)
	if !acceptedType(mt, allowPDF) {
		return nil, validation.NewError("file", fmt.Sprintf("tipo de archivo no permitido: %s", mt.String()))
	}

	var out models.UploadResult
	if err := s.d.Upload(ctx, path, "file", filename, bytes.NewReader(data), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func acceptedType(mt *mimetype.MIME, allowPDF bool) bool {
	if strings.HasPrefix(mt.String(), "image/") {
		return true
	}
	return allowPDF && mt.Is("application/pdf")
}
