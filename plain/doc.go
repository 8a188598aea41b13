// Package plain provides the plain-data value types benchkit persists.
//
// A plain value is one of: string, integer, float, boolean, null, an
// ordered sequence, or a string-keyed mapping, nested arbitrarily. Every
// task, method and result crosses the storage boundary as a plain value.
//
// All other packages in this module import plain; plain imports nothing
// from the module, keeping it the foundational layer.
//
// Key design constraints:
//   - Canonical bytes (Marshal) are the single identity-bearing form:
//     object keys in UTF-16 code-unit order, NFC-normalized strings,
//     minimal escaping, no HTML escaping.
//   - Content ids are SHA-256 over canonical bytes with domain
//     separation, so ids never collide across namespaces.
//   - NaN and infinities are rejected at the marshal boundary; they have
//     no JSON form.
package plain
