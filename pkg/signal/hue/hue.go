// Package hue turns configured Philips Hue lights/groups into a
// meditation light: a calm scene while the session runs and the wearer
// holds still, a nudge scene while they move, off when idle.
package hue

import (
	"fmt"
	"sync"
	"time"

	"github.com/amimof/huego"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/zen-master/pkg/common"
	"github.com/blaubaer/zen-master/pkg/credentials"
	"github.com/blaubaer/zen-master/pkg/session"
	"github.com/blaubaer/zen-master/pkg/signal"
)

const appName = "github.com/blaubaer/zen-master"

type Hue struct {
	conf         *Configuration
	saveConfFunc func() error

	lights      []huego.Light
	groups      []huego.Group
	credentials credentials.Credentials
	mutex       sync.Mutex
}

func (this *Hue) Initialize(conf *Configuration, saveConfFunc func() error) error {
	this.conf = conf
	this.saveConfFunc = saveConfFunc

	v, err := this.resolveCredentials()
	if err != nil {
		return err
	}
	this.credentials = v

	if err := this.Update(); err != nil {
		return err
	}

	return nil
}

func (this *Hue) Update() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	bridge, err := this.bridge()
	if err != nil {
		return err
	}

	lights, err := this.discoverLights(bridge)
	if err != nil {
		return err
	}
	groups, err := this.discoverGroups(bridge)
	if err != nil {
		return err
	}

	this.lights = lights
	this.groups = groups

	return nil
}

func (this *Hue) discoverLights(bridge *huego.Bridge) (result []huego.Light, _ error) {
	if this.conf.Kinds.Has(KindLight) {
		candidates, err := bridge.GetLights()
		if err != nil {
			return nil, fmt.Errorf("cannot discover lights of bridge %s: %w", bridge.Host, err)
		}
		for _, candidate := range candidates {
			if this.conf.Name.MatchString(candidate.Name) {
				if candidate.State == nil {
					candidate.State = &huego.State{}
				}
				result = append(result, candidate)
			}
		}
	}
	return
}

func (this *Hue) discoverGroups(bridge *huego.Bridge) (result []huego.Group, _ error) {
	if this.conf.Kinds.Has(KindGroup) {
		candidates, err := bridge.GetGroups()
		if err != nil {
			return nil, fmt.Errorf("cannot discover groups of bridge %s: %w", bridge.Host, err)
		}
		for _, candidate := range candidates {
			if this.conf.Name.MatchString(candidate.Name) {
				if candidate.State == nil {
					candidate.State = &huego.State{}
				}
				result = append(result, candidate)
			}
		}
	}
	return
}

func (this *Hue) Ensure(ctx signal.Context) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	bridge, err := this.bridge()
	if err != nil {
		return err
	}
	if err := this.ensureLights(bridge, ctx); err != nil {
		return err
	}
	if err := this.ensureGroups(bridge, ctx); err != nil {
		return err
	}
	return nil
}

func (this *Hue) ensureLights(bridge *huego.Bridge, ctx signal.Context) error {
	for i, v := range this.lights {
		if err := this.ensureLight(bridge, ctx, &v); err != nil {
			return err
		}
		this.lights[i] = v
	}
	return nil
}

func (this *Hue) ensureGroups(bridge *huego.Bridge, ctx signal.Context) error {
	for i, v := range this.groups {
		if err := this.ensureGroup(bridge, ctx, &v); err != nil {
			return err
		}
		this.groups[i] = v
	}
	return nil
}

// desiredState resolves the session snapshot to the scene the light
// should show, or nil if it already shows it.
func (this *Hue) desiredState(ctx signal.Context, current *huego.State) *huego.State {
	switch ctx.Phase() {
	case session.PhaseCountdown:
		return this.sceneIfDifferent(current, this.conf.CalmBrightness, this.conf.CalmHue, this.conf.CalmSaturation)
	case session.PhaseRunning:
		if ctx.Deadzone() {
			return this.sceneIfDifferent(current, this.conf.CalmBrightness, this.conf.CalmHue, this.conf.CalmSaturation)
		}
		return this.sceneIfDifferent(current, this.conf.NudgeBrightness, this.conf.NudgeHue, this.conf.NudgeSaturation)
	default:
		if current.On {
			return &huego.State{
				On: false,
			}
		}
		return nil
	}
}

func (this *Hue) sceneIfDifferent(current *huego.State, bri uint8, hue uint16, sat uint8) *huego.State {
	if current.On && current.Bri == bri && current.Hue == hue && current.Sat == sat {
		return nil
	}
	return &huego.State{
		On:  true,
		Bri: bri,
		Hue: hue,
		Sat: sat,

		Ct: 0,
	}
}

func (this *Hue) ensureLight(bridge *huego.Bridge, ctx signal.Context, v *huego.Light) error {
	if newState := this.desiredState(ctx, v.State); newState != nil {
		if _, err := bridge.SetLightState(v.ID, *newState); err != nil {
			return fmt.Errorf("cannot switch hue light %q#%d to phase %v: %w", v.Name, v.ID, ctx.Phase(), err)
		}
		v.State = newState
	}
	return nil
}

func (this *Hue) ensureGroup(bridge *huego.Bridge, ctx signal.Context, v *huego.Group) error {
	if newState := this.desiredState(ctx, v.State); newState != nil {
		if _, err := bridge.SetGroupState(v.ID, *newState); err != nil {
			return fmt.Errorf("cannot switch hue group %q#%d to phase %v: %w", v.Name, v.ID, ctx.Phase(), err)
		}
		v.State = newState
	}
	return nil
}

func (this *Hue) bridge() (*huego.Bridge, error) {
	v := this.credentials
	if v.IsHueZero() {
		return nil, fmt.Errorf("not paired with hue bridge")
	}
	return huego.New(v.HueBridge, v.HueUser), nil
}

func (this *Hue) resolveCredentials() (credentials.Credentials, error) {
	if u := this.conf.User; u != "" {
		bridge, err := this.discoverBridge()
		if err != nil {
			return credentials.Credentials{}, err
		}

		return credentials.Credentials{
			HueBridge: bridge.Host,
			HueUser:   u,
		}, nil
	}

	if this.conf.Pair {
		v, err := this.pair()
		if err != nil {
			return credentials.Credentials{}, err
		}
		return v, nil
	}

	v, err := this.readCredentials()
	if err != nil {
		return credentials.Credentials{}, err
	}

	if !v.IsHueZero() {
		return v, nil
	}

	return this.pair()
}

func (this *Hue) discoverBridge() (*huego.Bridge, error) {
	if this.conf.Bridge != "" {
		return &huego.Bridge{
			Host: this.conf.Bridge,
		}, nil
	}

	return huego.Discover()
}

func (this *Hue) pair() (credentials.Credentials, error) {
	bridge, err := this.discoverBridge()
	if err != nil {
		return credentials.Credentials{}, err
	}

	for {
		log.Info("Wait for hue link button been pressed...")
		user, err := bridge.CreateUser(appName)
		if apiErr, ok := common.AsError[*huego.APIError](err); ok && apiErr.Type == 101 && apiErr.Description == "link button not pressed" {
			time.Sleep(1 * time.Second)
			continue
		} else if err != nil {
			return credentials.Credentials{}, fmt.Errorf("was not able to pair with %s: %w", bridge.Host, err)
		} else {
			v := credentials.Credentials{
				HueBridge: bridge.Host,
				HueUser:   user,
			}

			if err := this.storeCredentials(v); err != nil {
				log.WithError(err).
					Warn("Cannot store credentials. The app will work now, but next time the pairing might be required again.")
			}

			log.With("bridge", bridge.Host).
				Info("Successfully paired.")
			return v, nil
		}
	}
}

func (this *Hue) readCredentials() (credentials.Credentials, error) {
	var v credentials.Credentials
	if _, err := v.ReadFromStore(); err != nil {
		return credentials.Credentials{}, err
	}

	if v.HueBridge == "" {
		v.HueBridge = this.conf.Bridge
	}
	if v.HueUser == "" {
		v.HueUser = this.conf.User
	}

	return v, nil
}

func (this *Hue) storeCredentials(v credentials.Credentials) error {
	supported, err := v.WriteToStore()
	if err != nil {
		return err
	}
	if supported {
		return nil
	}

	this.conf.Bridge = v.HueBridge
	this.conf.User = v.HueUser
	return this.saveConfFunc()
}

func (this *Hue) Dispose() error {
	this.conf = nil
	this.saveConfFunc = nil
	return nil
}

func (this *Hue) GetType() signal.Type {
	return signal.TypeHue
}
