// Package catalog implements the identity and data core of a small product
// catalog service: bcrypt credential handling, opaque external identifiers,
// a JWT access/refresh token service, and keyset paginated repositories for
// brands, categories, products, and comments.
//
// External identifiers are opaque encodings of internal UUIDs, see the
// opaqueid subpackage. The encoding hides the raw value from casual
// inspection but is reversible by construction; it is not encryption and
// must never be treated as a secret.
//
// Refresh tokens are not rotated: a refresh issues a new pair but the
// presented token stays valid until its own expiry. Revocation happens at
// the account level, since every authenticated request re-checks that the
// account is still active.
package catalog
