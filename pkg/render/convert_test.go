package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
)

func TestConvertWithoutTool(t *testing.T) {
	prev := rsvgTool
	rsvgTool = "chronoline-no-such-converter"
	t.Cleanup(func() { rsvgTool = prev })

	_, err := ToPDF([]byte("<svg/>"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrCodeUnsupported))
	assert.Contains(t, apperr.UserMessage(err), "export PDF")

	_, err = ToPNG([]byte("<svg/>"), 0)
	require.Error(t, err)
	assert.Contains(t, apperr.UserMessage(err), "export PNG")
}
