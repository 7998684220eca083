// Package toolguard validates and sanitizes the arguments of a single LLM tool call
// before anything acts on them.
//
// # Overview
//
// LLMs produce tool calls as loosely typed JSON: wrong types, padded strings, numbers as
// text, extra keys the tool never declared. This package turns such a payload into a
// small, well-typed Clean value and a list of human-readable diagnostics that can be
// shown to a user or sent back to the LLM for self-correction.
//
// Pipeline: raw JSON → ParsePayload (ordered Payload) → Validate (Clean, Diagnostics) →
// contract check (JSON Schema of Clean) → Result.
//
// # Key concepts
//
//   - Fatal gates: a missing or unknown action, or a missing or blank query for a search,
//     halts validation with an empty Clean and exactly one diagnostic.
//   - Warnings: an unusable k falls back to DefaultK, unknown keys are dropped; both are
//     reported but the call still succeeds.
//   - Pure core: Validate has no side effects and is safe for concurrent use.
//
// See Validate for the core rules and Sanitizer for the byte-level entry point used by the
// CLI and the web endpoint.
//
// # Example
//
//	p, err := toolguard.ParsePayload([]byte(`{"action":"search","q":"  capital of Japan ","k":"5"}`))
//	if err != nil { ... } // Invalid JSON: ...
//	clean, diags := toolguard.Validate(p)
//	// clean == Clean{Action: "search", Q: "capital of Japan", K: 5}, diags is empty
package toolguard
