package plain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// leaves room for an algorithm migration without colliding with
// existing ids.
const (
	DomainTask   = "benchkit/task/v1"
	DomainMethod = "benchkit/method/v1"
)

// hashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + data). The null byte keeps the domain/data
// boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the domain-separated content hash of a value's
// canonical form.
func Hash(domain string, v Value) (string, error) {
	canonical, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// TaskID computes the content-addressed id of a task: the hash of its
// type identifier together with its encoded payload. Equal payloads of
// the same type always map to the same id, across restarts.
func TaskID(typeName string, data Value) (string, error) {
	return Hash(DomainTask, Object{
		"type": String(typeName),
		"data": data,
	})
}

// MethodID computes the content-addressed id of a method. Same scheme
// as TaskID under its own domain, so a task and a method with equal
// payloads never share an id.
func MethodID(typeName string, data Value) (string, error) {
	return Hash(DomainMethod, Object{
		"type": String(typeName),
		"data": data,
	})
}

// MustTaskID is like TaskID but panics on error. Use only in tests
// with inputs known to be valid.
func MustTaskID(typeName string, data Value) string {
	id, err := TaskID(typeName, data)
	if err != nil {
		panic(err)
	}
	return id
}

// MustMethodID is like MethodID but panics on error. Use only in tests
// with inputs known to be valid.
func MustMethodID(typeName string, data Value) string {
	id, err := MethodID(typeName, data)
	if err != nil {
		panic(err)
	}
	return id
}
