// Package uploads validates attachment references. The files
// themselves are stored by an external collaborator; the forum only
// records already-persisted reference URLs.
package uploads

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/agoraforum/agora/pkg/config"
)

// Validator checks attachment filenames against the configured
// extension allowlist and mints stable reference URLs for them.
type Validator struct {
	allowed map[string]struct{}
	baseURL string
}

// New creates a validator from the uploads configuration
func New(cfg *config.UploadsConfig) *Validator {
	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Validator{
		allowed: allowed,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// Allowed reports whether the filename carries a permitted extension
func (v *Validator) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := v.allowed[ext]
	return ok
}

// Reference returns the URL under which an accepted attachment is
// recorded. The name is prefixed with a random id so distinct uploads
// of the same filename never collide.
func (v *Validator) Reference(filename string) (string, error) {
	if !v.Allowed(filename) {
		return "", fmt.Errorf("attachment type not allowed: %s", filename)
	}
	name := path.Base(filename)
	return fmt.Sprintf("%s/%s-%s", v.baseURL, uuid.NewString(), name), nil
}

// References validates a batch of filenames, silently dropping the
// disallowed ones, mirroring how attachment uploads are filtered.
func (v *Validator) References(filenames []string) []string {
	var refs []string
	for _, f := range filenames {
		if ref, err := v.Reference(f); err == nil {
			refs = append(refs, ref)
		}
	}
	return refs
}
