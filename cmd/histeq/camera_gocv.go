//go:build gocv

package main

import "github.com/ironsheep/histeq-tools/internal/gesture"

func openCamera(device int, title string) (camera, error) {
	return gesture.OpenCamera(device, title)
}
