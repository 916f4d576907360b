package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	log "github.com/echocat/slf4g"
	"github.com/echocat/slf4g/native"
	_ "github.com/echocat/slf4g/native"
	"github.com/echocat/slf4g/native/consumer"
	"github.com/echocat/slf4g/native/facade/value"
	"github.com/echocat/slf4g/native/formatter"
	"github.com/getlantern/systray"

	"github.com/blaubaer/zen-master/pkg/app"
	"github.com/blaubaer/zen-master/pkg/common"
	"github.com/blaubaer/zen-master/pkg/console"
)

var sessionLengths = []time.Duration{
	5 * time.Minute,
	10 * time.Minute,
	15 * time.Minute,
	20 * time.Minute,
	30 * time.Minute,
}

func main() {
	wf := &writerFacade{delegates: []io.Writer{os.Stdout}}
	buf := common.NewRingLineBuffer(2000, 4096)
	buf.TruncateTooLongLines = true
	consumer.Default = consumer.NewWriter(wf)

	lv := value.NewProvider(native.DefaultProvider)
	lv.Consumer.Formatter.Codec = value.MappingFormatterCodec{
		"text": formatter.NewText(func(v *formatter.Text) {
			bv := true
			v.AllowMultiLineMessage = &bv
			v.MultiLineMessageAfterFields = &bv
		}),
		"json": formatter.NewJson(),
	}

	var a app.App

	cmd := kingpin.New(os.Args[0], "Meditation companion that tracks stillness and softens distractions.")
	a.SetupConfiguration(cmd)

	cmd.Flag("log.level", "").
		SetValue(lv.Level)
	cmd.Flag("log.format", "").
		Default("text").
		SetValue(lv.Consumer.Formatter)
	cmd.Flag("log.color", "").
		Default("always").
		SetValue(lv.Consumer.Formatter.ColorMode)

	cmd.Command("run", "Runs the tray application.").
		Default().
		Action(func(*kingpin.ParseContext) error {
			return runApp(&a, wf, buf)
		})

	cmd.Command("calibrate", "Records the resting noise of the sensor and stores a suggested stillness threshold.").
		Action(func(*kingpin.ParseContext) error {
			return runCalibrate(&a)
		})

	kingpin.MustParse(cmd.Parse(os.Args[1:]))
}

func runCalibrate(a *app.App) error {
	if err := a.Initialize(); err != nil {
		return err
	}
	defer func() { _ = a.Dispose() }()

	result, err := a.Calibrate()
	if err != nil {
		return err
	}

	log.With("samples", result.Samples).
		With("threshold", result.SuggestedThreshold).
		Info("Stillness threshold stored.")

	return nil
}

func runApp(a *app.App, wf *writerFacade, buf *common.RingLineBuffer) error {
	if err := a.Initialize(); err != nil {
		return err
	}

	systray.Run(func() {
		defer func() { _ = a.Dispose() }()

		systray.SetTitle("Zen ○")
		systray.SetTooltip("Zen master")

		startMi := systray.AddMenuItem("Start session", "Starts the settle-down countdown.")
		stopMi := systray.AddMenuItem("Stop session", "Stops the current session.")
		lengthMi := systray.AddMenuItem("Session length", "Selects the length of the next session.")
		lengthMis := make([]*systray.MenuItem, len(sessionLengths))
		for i, d := range sessionLengths {
			lengthMis[i] = lengthMi.AddSubMenuItemCheckbox(d.String(), "", d == a.Session().Snapshot().Selected)
		}
		showConsoleMi := systray.AddMenuItem("Show Console", "Shows the console with more information.")
		quitMi := systray.AddMenuItem("Exit", "Exit the zen master.")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var consoleCloser atomic.Pointer[context.CancelFunc]

		lengthClicked := make(chan int)
		for i, mi := range lengthMis {
			go func(i int, mi *systray.MenuItem) {
				for range mi.ClickedCh {
					select {
					case lengthClicked <- i:
					case <-ctx.Done():
						return
					}
				}
			}(i, mi)
		}

		go func() {
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			for {
				select {
				case <-startMi.ClickedCh:
					a.Session().StartCountdown()
				case <-stopMi.ClickedCh:
					a.Session().Stop()
				case i := <-lengthClicked:
					a.Session().SetSelectedDuration(sessionLengths[i])
					for j, mi := range lengthMis {
						if j == i {
							mi.Check()
						} else {
							mi.Uncheck()
						}
					}
				case <-showConsoleMi.ClickedCh:
					for {
						if cl := consoleCloser.Load(); cl != nil {
							(*cl)()
							showConsoleMi.SetTitle("Show Console")
							showConsoleMi.SetTooltip("Shows the console with more information.")
							break
						} else {
							shCtx, shCancel := context.WithCancel(ctx)
							if !consoleCloser.CompareAndSwap(nil, &shCancel) {
								shCancel()
								continue
							}
							showConsoleMi.SetTitle("Hide Console")
							showConsoleMi.SetTooltip("Hide the currently opened console.")
							go showConsole(shCtx, buf, wf, func() {
								shCancel()
								consoleCloser.Store(nil)
							})
							break
						}
					}
				case <-c:
					log.Info("Terminated. Going down...")
					cancel()
				case <-quitMi.ClickedCh:
					log.Info("Exit clicked. Going down...")
					cancel()
				}
			}
		}()

		wf.set([]io.Writer{buf})
		_ = a.Run(ctx)
		os.Exit(0)
	}, nil)

	return nil
}

func showConsole(bCtx context.Context, buf *common.RingLineBuffer, wf *writerFacade, finalizer func()) {
	defer finalizer()
	fail := func(err error) {
		log.WithError(err).
			Warn("Cannot create console.")
	}

	dc, err := console.NewDedicatedConsole("Zen master")
	if err != nil {
		fail(err)
		return
	}
	defer func() { _ = dc.Close() }()

	wf.set([]io.Writer{buf, dc.Stdout}, func(current, next []io.Writer) {
		_, _ = buf.WriteTo(dc.Stdout)
	})
	defer wf.set([]io.Writer{buf})

	ctx, cancelFunc := context.WithCancel(bCtx)
	defer cancelFunc()

	dc.OnCtrlC = func(event any) bool {
		cancelFunc()
		return false
	}

	<-ctx.Done()
}

type writerFacade struct {
	delegates []io.Writer
	mutex     sync.RWMutex
}

func (this *writerFacade) Write(p []byte) (n int, err error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	for i, w := range this.delegates {
		var nn int
		if nn, err = w.Write(p); err != nil {
			return n, err
		}
		if i == 0 {
			n = nn
		} else if n != nn {
			return n, fmt.Errorf("the previous writer wrote %d, but the current one wrote %d bytes", nn, n)
		}
	}

	return
}

func (this *writerFacade) set(next []io.Writer, whileChange ...func(current, next []io.Writer)) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	current := this.delegates
	for _, fn := range whileChange {
		fn(current, next)
	}
	this.delegates = next
}
