package globals

// JwtSecret is populated from the environment in main, after .env loading.
var JwtSecret []byte

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const UserEmailKey ContextKey = "userEmail"
