//go:build !windows

package console

import "errors"

var ErrUnsupported = errors.New("dedicated console is not supported on this platform")

func NewDedicatedConsole(string) (*DedicatedConsole, error) {
	return nil, ErrUnsupported
}

func (this *DedicatedConsole) Close() error {
	return nil
}
