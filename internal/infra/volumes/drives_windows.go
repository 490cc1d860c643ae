//go:build windows

package volumes

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func logicalDrives() (uint32, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDriveQuery, err)
	}
	return mask, nil
}
