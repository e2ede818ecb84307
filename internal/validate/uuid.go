package validate

import "github.com/google/uuid"

// canonicalUUIDLen is the length of the 8-4-4-4-12 hex form.
const canonicalUUIDLen = 36

// IsUUIDv5 reports whether candidate is a version 5, RFC 4122 variant UUID
// in canonical hyphenated form. Hex digits may be upper or lower case.
// Braced, URN and unhyphenated forms are rejected.
func IsUUIDv5(candidate string) bool {
	if len(candidate) != canonicalUUIDLen {
		return false
	}
	id, err := uuid.Parse(candidate)
	if err != nil {
		return false
	}
	return id.Version() == 5 && id.Variant() == uuid.RFC4122
}
