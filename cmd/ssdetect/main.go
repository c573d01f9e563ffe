// Package main provides the entry point for the ssdetect CLI.
//
// ssdetect classifies images as screenshots or regular pictures using a
// horizontal edge heuristic and OCR text analysis, optionally relocating
// detected screenshots out of a photo library.
//
// Usage:
//
//	ssdetect classify <directory>
//	ssdetect classify --move <target> <directory>
//	ssdetect inspect <image-file>
//
// See --help for all available options.
package main

import "os"

// main is the entry point for ssdetect.
func main() {
	os.Exit(Execute())
}
