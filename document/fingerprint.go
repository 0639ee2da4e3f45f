package document

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/MKhiriev/go-cloud-sync/models"
)

// Fingerprint returns a hex-encoded SHA-256 digest of the document's
// canonical JSON form. encoding/json emits map keys in sorted order, so two
// documents with equal field sets always produce the same fingerprint
// regardless of construction order. The engine compares fingerprints to
// skip redundant writes of unchanged documents.
func Fingerprint(doc models.Document) string {
	payload, err := json.Marshal(doc)
	if err != nil {
		// Documents produced by Marshal are always encodable. A hand-built
		// document with an unencodable value yields the empty fingerprint,
		// which change detection treats as never matching.
		return ""
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Equal reports whether two documents have identical canonical forms.
func Equal(a, b models.Document) bool {
	return Fingerprint(a) == Fingerprint(b)
}
