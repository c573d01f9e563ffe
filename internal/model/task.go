package model

// ImageTask is a single unit of work handed to a classification worker.
type ImageTask struct {
	// Path is the absolute path of the image file to classify.
	Path string

	// Index is the position of this file in the enumerated input set,
	// starting at zero. It is carried for progress reporting only.
	Index int

	// Mode selects which detection methods the worker applies.
	Mode DetectionMode
}
