//go:build gocv

package gesture

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// CameraHarness drives the loop from an OpenCV capture device and window.
type CameraHarness struct {
	capture *gocv.VideoCapture
	window  *gocv.Window
	frame   gocv.Mat
	delay   int
}

// OpenCamera opens capture device and a display window titled title.
func OpenCamera(device int, title string) (*CameraHarness, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", device, err)
	}
	return &CameraHarness{
		capture: capture,
		window:  gocv.NewWindow(title),
		frame:   gocv.NewMat(),
		delay:   10,
	}, nil
}

// NextFrame reads one frame from the camera.
func (c *CameraHarness) NextFrame() (image.Image, error) {
	if ok := c.capture.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, errors.New("cannot read from camera")
	}
	return c.frame.ToImage()
}

// PollKey waits briefly for a key press; this also lets the window repaint.
func (c *CameraHarness) PollKey() int {
	k := c.window.WaitKey(c.delay)
	if k == KeyNone {
		return k
	}
	return k & 0xFF
}

// Show renders frame in the window.
func (c *CameraHarness) Show(frame image.Image) error {
	var (
		mat gocv.Mat
		err error
	)
	if g, ok := frame.(*image.Gray); ok {
		mat, err = gocv.ImageGrayToMatGray(g)
	} else {
		mat, err = gocv.ImageToMatRGB(frame)
	}
	if err != nil {
		return fmt.Errorf("failed to convert frame: %w", err)
	}
	defer mat.Close()

	c.window.IMShow(mat)
	return nil
}

// Close releases the window and the capture device.
func (c *CameraHarness) Close() error {
	c.frame.Close()
	c.window.Close()
	return c.capture.Close()
}
