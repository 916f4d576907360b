package audio

import (
	"github.com/blaubaer/zen-master/pkg/common"
)

// Stack is the platform implementation of Volume. On unsupported
// platforms Initialize succeeds but Get/Set report ErrUnsupported and
// numbing silently degrades to a no-op.
type Stack struct{}

func (this *Stack) SetupConfiguration(_ common.FlagHolder) {}

func (this *Stack) Initialize() error {
	return initializeStack()
}

func (this *Stack) Dispose() error {
	return disposeStack()
}

func (this *Stack) Get() (float64, error) {
	return getVolume()
}

func (this *Stack) Set(v float64) error {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return setVolume(v)
}
