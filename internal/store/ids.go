package store

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// DomainCell prefixes cell hashes. The version suffix allows a future
// change of algorithm.
const DomainCell = "tqlsh/cell/v1"

// hashWithDomain computes SHA256(domain + 0x00 + part + 0x00 + part ...).
// The null separators keep field boundaries unambiguous.
func hashWithDomain(domain string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CellID computes the content-addressed ID of a cell. Query text is
// NFC-normalised first, so canonically equivalent text gets the same ID.
func CellID(sessionID string, seq int64, query string) string {
	return hashWithDomain(DomainCell, sessionID, strconv.FormatInt(seq, 10), norm.NFC.String(query))
}
