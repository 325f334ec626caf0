package service

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

var pseudonymAdjectives = []string{
	"Amber", "Brave", "Calm", "Clever", "Eager", "Gentle", "Happy", "Jolly",
	"Kind", "Lively", "Lucky", "Mellow", "Proud", "Quiet", "Swift", "Witty",
}

var pseudonymNouns = []string{
	"Badger", "Falcon", "Fox", "Heron", "Koala", "Lynx", "Marmot", "Otter",
	"Owl", "Panda", "Puffin", "Raven", "Robin", "Seal", "Tiger", "Wolf",
}

// GeneratePseudonym derives a stable "AdjectiveNoun#hash6" label from an email and an
// organization id. The organization id separates the namespaces of different organizations.
func GeneratePseudonym(email, orgID string) string {
	digest := sha256.Sum256([]byte(email + ":" + orgID))

	adjective := pseudonymAdjectives[int(binary.BigEndian.Uint16(digest[0:2]))%len(pseudonymAdjectives)]
	noun := pseudonymNouns[int(binary.BigEndian.Uint16(digest[2:4]))%len(pseudonymNouns)]

	return adjective + noun + "#" + hex.EncodeToString(digest[:3])
}
