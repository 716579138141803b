// Package store provides the client-local durable key-value state: tokens,
// profile snapshot and the in-progress registration draft. It is the Go
// analogue of the browser's localStorage slot the platform front end uses.
package store

// Well-known keys. All values are plain strings or JSON blobs; everything is
// removed on logout.
const (
	KeyAccess       = "access"
	KeyRefresh      = "refresh"
	KeyProfile      = "profile"
	KeyClientName   = "client_name"
	KeyRegisterData = "registerData"
	KeyUserID       = "userId"
)

// Store is the persistence capability injected into the auth handshake and
// the registration machine. Callers read-modify-write whole values; there are
// no merge semantics. Concurrent writers are last-write-wins.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set persists value under key, overwriting any prior value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Clear removes every key.
	Clear() error
}
