package airquality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestSuggestVentilation(t *testing.T) {
	assert.Equal(t, AdviceOpenWindows, SuggestVentilation(20, ptr(15)))
	assert.Contains(t, SuggestVentilation(20, ptr(15)), "open windows")

	assert.Equal(t, AdviceOutdoorUnavailable, SuggestVentilation(20, nil))
	assert.Contains(t, SuggestVentilation(20, nil), "purifier")

	assert.Equal(t, AdviceKeepClosed, SuggestVentilation(20, ptr(20)))
	assert.Equal(t, AdviceKeepClosed, SuggestVentilation(20, ptr(30)))
}
