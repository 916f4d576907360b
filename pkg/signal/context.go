package signal

import (
	"time"

	"github.com/blaubaer/zen-master/pkg/session"
)

type Context interface {
	Phase() session.Phase

	// Deadzone reports whether the wearer currently counts as still.
	Deadzone() bool

	CountdownRemaining() int
	Remaining() time.Duration
	Selected() time.Duration
}
