//go:build windows

package audio

import (
	"fmt"
	"sync"

	"github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"
)

var stackState struct {
	initialized bool
	mutex       sync.Mutex
}

func initializeStack() error {
	stackState.mutex.Lock()
	defer stackState.mutex.Unlock()

	if stackState.initialized {
		return nil
	}

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		return fmt.Errorf("failed to initialize ole: %v", err)
	}

	stackState.initialized = true
	return nil
}

func disposeStack() error {
	stackState.mutex.Lock()
	defer stackState.mutex.Unlock()

	if !stackState.initialized {
		return nil
	}

	ole.CoUninitialize()
	stackState.initialized = false

	return nil
}

func getVolume() (result float64, _ error) {
	err := withEndpointVolume(func(aev *wca.IAudioEndpointVolume) error {
		var level float32
		if err := aev.GetMasterVolumeLevelScalar(&level); err != nil {
			return fmt.Errorf("cannot read master volume: %w", err)
		}
		result = float64(level)
		return nil
	})
	return result, err
}

func setVolume(v float64) error {
	return withEndpointVolume(func(aev *wca.IAudioEndpointVolume) error {
		if err := aev.SetMasterVolumeLevelScalar(float32(v), nil); err != nil {
			return fmt.Errorf("cannot set master volume to %.2f: %w", v, err)
		}
		return nil
	})
}

func withEndpointVolume(action func(*wca.IAudioEndpointVolume) error) error {
	stackState.mutex.Lock()
	defer stackState.mutex.Unlock()

	if !stackState.initialized {
		return fmt.Errorf("not initialized")
	}

	var de *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &de); err != nil {
		return fmt.Errorf("cannot create IMMDeviceEnumerator instance: %w", err)
	}
	defer de.Release()

	var device *wca.IMMDevice
	if err := de.GetDefaultAudioEndpoint(wca.ERender, wca.EConsole, &device); err != nil {
		return fmt.Errorf("cannot resolve default render endpoint: %w", err)
	}
	defer device.Release()

	var aev *wca.IAudioEndpointVolume
	if err := device.Activate(wca.IID_IAudioEndpointVolume, wca.CLSCTX_ALL, nil, &aev); err != nil {
		return fmt.Errorf("cannot activate endpoint volume of default render endpoint: %w", err)
	}
	defer aev.Release()

	return action(aev)
}
