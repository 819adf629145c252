// Package config handles configuration loading, parsing, and validation
// from environment variables. It provides type-safe access to the settings
// needed by the server, the logger and the Gemini client while keeping
// configuration details separate from the generation logic.
//
// The Gemini API key is the only required setting and is read from the
// GEMINI_API_KEY environment variable. Operational settings are optional and
// use the PROMPTLAB_ prefix (for example PROMPTLAB_SERVER_PORT).
package config
