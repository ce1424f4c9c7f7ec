package sqlite

// Repositories holds all SQLite repository implementations.
type Repositories struct {
	Mirror   *MirrorRepository
	Settings *SettingsRepository
}

// NewRepositories creates all SQLite repositories with a shared database
// connection. The mirror capacity bounds the correlation table.
func NewRepositories(db *DB, mirrorCapacity int) *Repositories {
	return &Repositories{
		Mirror:   NewMirrorRepository(db, mirrorCapacity),
		Settings: NewSettingsRepository(db),
	}
}
