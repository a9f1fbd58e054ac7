// Package schemas ships the JSON Schema documents used to validate CV files
// and résumé interchange files.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
