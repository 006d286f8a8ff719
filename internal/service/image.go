package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/injury-triage-server/internal/domain"
)

// NewImageInput validates an uploaded file and wraps it for the classifier.
// Empty uploads are reported as a missing image; content that does not sniff
// as an image/* type is rejected.
func NewImageInput(data []byte, filename string) (*domain.ImageInput, error) {
	if len(data) == 0 {
		return nil, domain.ErrNoImage
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", domain.ErrInvalidImage, detected.String())
	}

	sum := sha256.Sum256(data)

	return &domain.ImageInput{
		Data:     data,
		MIMEType: baseMIME(detected.String()),
		Digest:   hex.EncodeToString(sum[:]),
		Filename: filename,
	}, nil
}

// baseMIME strips parameters such as "; charset=utf-8".
func baseMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		return strings.TrimSpace(m[:i])
	}
	return m
}
