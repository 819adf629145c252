// Package generation owns the call to the external text-generation service.
//
// Generator is the boundary interface implemented by the Gemini adapter.
// Gateway wraps a Generator with an explicit keyed memo store: every distinct
// (persona, prompt, temperature) triple reaches the Generator at most once for
// the life of the process, and failures are flattened into a result string and
// cached exactly like successful answers. Entries are never invalidated.
package generation
