package pipeline

import (
	"fmt"
	"io"

	"grayscope/internal/imaging"
	"grayscope/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// decode reads r fully and decodes it as a BGR Mat. The format name comes
// from the Go decoders when they recognise the header.
func decode(r io.Reader, tracker safe.MemoryTracker) (*safe.Mat, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image data is empty")
	}

	format := "unknown"
	if name, _, err := imaging.SniffFormat(data); err == nil {
		format = name
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image with OpenCV: %w", err)
	}

	safeMat, err := safe.Adopt(mat, tracker, "loaded_image")
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return safeMat, format, nil
}
