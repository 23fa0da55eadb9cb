//go:build !gocv

package main

import "errors"

func openCamera(device int, title string) (camera, error) {
	return nil, errors.New("camera support is not compiled in; rebuild with -tags gocv (requires OpenCV)")
}
