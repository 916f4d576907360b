//go:build !windows

package credentials

// There is no credential store binding for this platform. The caller
// falls back to persisting inside its configuration file.

func (this *Credentials) ReadFromStore() (supported bool, err error) {
	return false, nil
}

func (this *Credentials) WriteToStore() (supported bool, err error) {
	return false, nil
}
