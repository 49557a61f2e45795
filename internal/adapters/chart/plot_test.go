package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/liufit-go/internal/adapters/i18n"
	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
	"github.com/0xcro3dile/liufit-go/internal/domain/usecases"
)

func TestRenderer_PNG(t *testing.T) {
	res, err := usecases.FitSeries(
		[]float64{10, 15, 22, 33, 50, 75, 110},
		[]float64{4.1, 5.3, 6.0, 7.0, 8.1, 9.2, 10.1},
	)
	require.NoError(t, err)

	tr := i18n.NewCatalog(i18n.LangZH).For(i18n.LangZH)
	data, err := NewRenderer(320, 240).Render(res, tr)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestRenderer_Defaults(t *testing.T) {
	r := NewRenderer(0, -1)
	assert.Equal(t, NewRenderer(640, 480).width, r.width)
	assert.Equal(t, "image/png", r.ContentType())
}

func TestRenderer_EmptyResult(t *testing.T) {
	tr := i18n.NewCatalog(i18n.LangEN).For(i18n.LangEN)
	_, err := NewRenderer(100, 100).Render(&entities.FitResult{}, tr)
	assert.Error(t, err)
}
