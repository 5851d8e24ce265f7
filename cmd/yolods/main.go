// Reads YOLO object detection datasets, lists their image/label pairs and converts their splits
// to the KITTI, Sloth and TFRecord label formats.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
