package main

import (
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// --- Input Validation ---

// safeFilenameRegex allows alphanumeric, dots, hyphens, underscores, spaces, and parentheses.
var safeFilenameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._ ()-]{0,254}$`)

func validateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session id")
	}
	return nil
}

// validateUploadType enforces the single upload gate: the declared
// content type must be an image type. There is deliberately no size
// limit and no allow-list narrower than "image/" — anything the
// registered decoders can parse is accepted, and anything they cannot
// fails later as a decode error.
func validateUploadType(contentType string) error {
	if contentType == "" {
		return fmt.Errorf("content type is required")
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("invalid content type %q", contentType)
	}
	if !strings.HasPrefix(mt, "image/") {
		return fmt.Errorf("unsupported content type %s: only images are accepted", mt)
	}
	return nil
}

// sanitizeFilename reduces an uploaded filename to a safe display name.
// Directory components are stripped and anything outside the safe
// character set falls back to a generic name.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if !safeFilenameRegex.MatchString(name) {
		return "upload"
	}
	return name
}
