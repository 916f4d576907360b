//go:build !windows

package audio

func initializeStack() error {
	return nil
}

func disposeStack() error {
	return nil
}

func getVolume() (float64, error) {
	return 0, ErrUnsupported
}

func setVolume(float64) error {
	return ErrUnsupported
}
