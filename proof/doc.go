// Package proof issues and validates short-lived signed proof tokens that
// attest a verification request was accepted. Tokens are plain JWTs so that
// downstream services can check them without calling back into the engine.
package proof
