//go:build !windows

package volumes

func logicalDrives() (uint32, error) {
	return 0, ErrUnsupportedPlatform
}
