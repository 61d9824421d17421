package storage

// Keys persisted by the stores.
const (
	KeyTasks            = "tasks"
	KeyProfiles         = "profiles"
	KeyCurrentProfileID = "currentProfileId"
	KeyLastRolloverDate = "lastRolloverDate"
)

// KV is the persistence adapter the stores write through. Values are
// JSON-serializable. Get reports whether the key was present; an absent
// key is not an error and leaves out untouched.
type KV interface {
	Get(key string, out any) (bool, error)
	Set(key string, value any) error
	Delete(key string) error
}
