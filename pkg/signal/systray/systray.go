package systray

import (
	"fmt"
	"time"

	"github.com/getlantern/systray"

	"github.com/blaubaer/zen-master/pkg/session"
	"github.com/blaubaer/zen-master/pkg/signal"
)

// Systray mirrors the session into the tray entry of the host. It assumes
// systray.Run was already started by the main loop.
type Systray struct{}

func (this *Systray) Initialize() error {
	return nil
}

func (this *Systray) Dispose() error {
	return nil
}

func (this *Systray) Ensure(ctx signal.Context) error {
	switch ctx.Phase() {
	case session.PhaseCountdown:
		systray.SetTitle("Zen ◌")
		systray.SetTooltip(fmt.Sprintf("Settle down... %d", ctx.CountdownRemaining()))
	case session.PhaseRunning:
		if ctx.Deadzone() {
			systray.SetTitle("Zen ●")
			systray.SetTooltip(fmt.Sprintf("Meditating, %v remaining", ctx.Remaining().Truncate(time.Second)))
		} else {
			systray.SetTitle("Zen ◍")
			systray.SetTooltip(fmt.Sprintf("Movement detected, %v remaining", ctx.Remaining().Truncate(time.Second)))
		}
	default:
		systray.SetTitle("Zen ○")
		systray.SetTooltip(fmt.Sprintf("No session running. Selected length: %v", ctx.Selected().Truncate(time.Second)))
	}

	return nil
}

func (this *Systray) Update() error {
	return nil
}

func (this *Systray) GetType() signal.Type {
	return signal.TypeSystray
}
