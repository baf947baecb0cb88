// Package internal holds entropy helpers shared by the humanproof engine.
// Nothing here is part of the public API.
package internal
