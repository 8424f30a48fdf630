// Package schemas holds the JSON Schema documents shipped with the binary.
package schemas

import _ "embed"

// Resume is the JSON Schema (draft-07) describing a complete resume document.
//
//go:embed resume.schema.json
var Resume string
