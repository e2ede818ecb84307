package upload

import "github.com/google/uuid"

// contentNamespace is the UUIDv5 namespace used to derive content identifiers.
// Changing it changes every identifier ever issued.
var contentNamespace = uuid.NameSpaceDNS

// ContentID returns the deterministic identifier of data: a version 5 UUID
// over the raw bytes in the DNS namespace. It does not depend on any name.
func ContentID(data []byte) string {
	return uuid.NewSHA1(contentNamespace, data).String()
}
