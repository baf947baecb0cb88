// Package secrethash hashes challenge secrets with argon2id.
//
// Challenge text is visually exposed to the caller anyway, so the slow hash is
// defense-in-depth against offline brute force of stored hashes rather than a
// hard secrecy boundary. Any constant-time-comparable hash with tunable cost
// would satisfy the same contract.
package secrethash
