package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prefdomain "microwins/internal/modules/preference/domain"
)

func TestFontApplierSwitchesReadingStyle(t *testing.T) {
	t.Cleanup(func() { SetFont(prefdomain.FontStandard) })

	require.NoError(t, FontApplier{}.ApplyFont(context.Background(), prefdomain.FontDyslexic))
	assert.Equal(t, 60, Wrap(120))
	assert.Equal(t, 40, Wrap(40))
	assert.Equal(t, 1, Body().GetMarginBottom())

	SetFont(prefdomain.FontStandard)
	assert.Equal(t, 120, Wrap(120))
	assert.Equal(t, 0, Body().GetMarginBottom())
}
