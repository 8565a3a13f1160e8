// Package schemas embeds the JSON Schema documents shipped with the profiler.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// ResponsesSchema is the file name of the responses document schema.
const ResponsesSchema = "responses.schema.json"

// Responses returns the raw responses document schema.
func Responses() []byte {
	data, err := FS.ReadFile(ResponsesSchema)
	if err != nil {
		panic("schemas: embedded responses schema missing: " + err.Error())
	}
	return data
}
