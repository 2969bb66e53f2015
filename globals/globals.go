package globals

// ContextKey is the type for values stashed in a request context.
type ContextKey string

const UserIDKey ContextKey = "userId"
const RoleKey ContextKey = "role"
