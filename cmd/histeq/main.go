// Command histeq equalizes image histograms and runs the webcam
// background-difference loop.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	Execute()
}
