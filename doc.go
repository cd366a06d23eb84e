// Package accounts provides account-management primitives: self-validating
// identity and credential entities, a transactional provisioning workflow,
// a time-boxed security-key lifecycle, and a role-rank authorization gate.
//
// Entities:
//   - Identity is the profile aggregate (user, client, or manager depending on
//     its role). Construct one with NewIdentity; every field runs its
//     validation rule before it is stored, so an Identity that exists in
//     memory is valid as of its last successful write. Partial updates go
//     through IdentityPatch, which only touches the fields a caller sets.
//   - Credential owns the authentication secret for an identity. The
//     plaintext password is checked for complexity and hashed inside
//     NewCredential; it is never stored.
//
// Provisioning:
//   - RegisterAccountHandler (self-registration) and CreateAccountHandler
//     (privileged creation) both funnel through a single transaction scope
//     that writes the Identity and its Credential as one unit. Duplicate
//     checks run before the scope opens; notification dispatch runs after
//     commit and is best-effort.
//
// Security keys:
//   - Activation and forgot-password keys are single-use 256-bit random
//     values with a fixed TTL. Consumption clears the key fields in the same
//     write that applies the effect they gate.
//
// Authorization:
//   - TokenService signs and validates subject/role claims. Guards compare
//     role ranks: a caller manages a target only when its rank is strictly
//     greater; self-service operations require subject equality instead.
package accounts
