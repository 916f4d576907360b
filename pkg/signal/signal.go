package signal

// Signal presents the observable session state to the outside world: a
// tray entry, a meditation light, a home-automation entity.
type Signal interface {
	Dispose() error

	// Ensure brings the presented state in line with the given session
	// snapshot.
	Ensure(Context) error

	// Update refreshes cached backend state (discovered lights etc.).
	Update() error

	GetType() Type
}
