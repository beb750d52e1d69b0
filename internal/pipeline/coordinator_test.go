package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"grayscope/internal/logger"
	"grayscope/internal/opencv/memory"
	"grayscope/internal/processing/filters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator() (*Coordinator, *memory.Manager) {
	log := logger.NoOpLogger{}
	mm := memory.NewManager(log)
	params := map[string]interface{}{"kernel_size": 5, "window_size": 3}
	return NewCoordinator(filters.NewRegistry(log), mm, log, params), mm
}

func encodedGradient(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x*255)/(w-1)) / 2
			img.Set(x, y, color.RGBA{R: v, G: v + 40, B: v, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCoordinatorWithoutImage(t *testing.T) {
	c, _ := newTestCoordinator()

	_, err := c.Apply(context.Background(), "threshold")
	assert.ErrorIs(t, err, ErrNoImage)
	assert.ErrorIs(t, c.SaveImage(&bytes.Buffer{}, "png"), ErrNoImage)
	assert.Nil(t, c.Current())
}

func TestCoordinatorUnknownFilter(t *testing.T) {
	c, _ := newTestCoordinator()
	_, err := c.Apply(context.Background(), "no-such-filter")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoImage)
}

func TestCoordinatorRejectsGarbage(t *testing.T) {
	c, _ := newTestCoordinator()
	_, err := c.LoadImage("garbage", bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
	assert.Nil(t, c.Current())
}

func TestCoordinatorLoadApplySave(t *testing.T) {
	c, mm := newTestCoordinator()

	data, err := c.LoadImage("gradient.png", bytes.NewReader(encodedGradient(t, 16, 12)))
	require.NoError(t, err)
	assert.Equal(t, 16, data.Width)
	assert.Equal(t, 12, data.Height)
	assert.Equal(t, "png", data.Format)
	assert.Same(t, data, c.Current())
	assert.Empty(t, c.Current().Filter)

	for _, name := range []string{"custom-gaussian", "local-histeq", "threshold"} {
		out, err := c.Apply(context.Background(), name)
		require.NoError(t, err, name)
		assert.Equal(t, 16, out.Width, name)
		assert.Equal(t, 12, out.Height, name)
		assert.Equal(t, name, out.Filter)
		assert.Same(t, out, c.Current())
	}

	var buf bytes.Buffer
	require.NoError(t, c.SaveImage(&buf, "png"))
	saved, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 12), saved.Bounds())

	c.Cleanup()
	assert.Nil(t, c.Current())
	assert.Equal(t, int64(0), mm.GetStats().ActiveMats)
}

func TestCoordinatorCancelledContext(t *testing.T) {
	c, _ := newTestCoordinator()
	_, err := c.LoadImage("gradient.png", bytes.NewReader(encodedGradient(t, 8, 8)))
	require.NoError(t, err)
	defer c.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Apply(ctx, "local-histeq")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.Current().Filter)
}
