package detect

import "image"

// Horizontal edge parameters. A row qualifies as a horizontal line when at
// least lineFillPercent of its pixels reach lineStrength on the normalized
// 0..normalizedMax scale. One qualifying row classifies the image as a
// screenshot.
const (
	// normalizedMax is the top of the normalized edge-strength scale.
	normalizedMax = 10

	// lineStrength is the minimum normalized strength a pixel needs to
	// count toward a horizontal line.
	lineStrength = 6

	// lineFillPercent is the percentage of a row's pixels that must reach
	// lineStrength for the row to qualify.
	lineFillPercent = 90
)

// DetectRows returns the indices of image rows that form horizontal lines.
//
// The image is convolved with the 3x3 kernel
//
//	-1 -1 -1
//	 0  0  0
//	+1 +1 +1
//
// using symmetric mirroring at the borders. The absolute response is
// normalized to integers in 0..10 across the whole image, then each row is
// tested against the fill threshold. Screenshots produce rows where nearly
// every pixel sits on a strong edge (toolbar borders, window chrome);
// photographs rarely produce even one.
func DetectRows(img *image.Gray) []int {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	at := func(x, y int) int {
		return int(img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
	}

	// First pass: horizontal 3-sums per pixel, mirrored at the side edges.
	sums := make([][]int, height)
	for y := 0; y < height; y++ {
		row := make([]int, width)
		for x := 0; x < width; x++ {
			row[x] = at(mirror(x-1, width), y) + at(x, y) + at(mirror(x+1, width), y)
		}
		sums[y] = row
	}

	// Second pass: the kernel reduces to the difference between the 3-sum
	// one row up and one row down once the absolute value is taken.
	strength := make([][]int, height)
	minStrength, maxStrength := -1, -1
	for y := 0; y < height; y++ {
		row := make([]int, width)
		above, below := sums[mirror(y-1, height)], sums[mirror(y+1, height)]
		for x := 0; x < width; x++ {
			v := above[x] - below[x]
			if v < 0 {
				v = -v
			}
			row[x] = v
			if minStrength < 0 || v < minStrength {
				minStrength = v
			}
			if v > maxStrength {
				maxStrength = v
			}
		}
		strength[y] = row
	}

	// A flat image produces uniform response; normalization would divide
	// by zero and nothing can qualify anyway.
	if minStrength == maxStrength {
		return nil
	}

	span := maxStrength - minStrength
	var rows []int
	for y := 0; y < height; y++ {
		count := 0
		for x := 0; x < width; x++ {
			// Truncating division matches the integer cast the scale
			// was tuned with: a pixel reaches 10 only at the maximum.
			normalized := (strength[y][x] - minStrength) * normalizedMax / span
			if normalized >= lineStrength {
				count++
			}
		}
		if count*100 >= width*lineFillPercent {
			rows = append(rows, y)
		}
	}
	return rows
}

// mirror reflects an out-of-range index back into [0, n) about the border,
// so index -1 maps to 0 and index n maps to n-1.
func mirror(i, n int) int {
	if i < 0 {
		return -i - 1
	}
	if i >= n {
		return 2*n - i - 1
	}
	return i
}
