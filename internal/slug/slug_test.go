package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/errs"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"official":         "official",
		"  Fan Meeting  ":  "fan_meeting",
		"Year-End  Gala!!": "year_end_gala",
		"__rank__battle__": "rank_battle",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
	assert.Len(t, Slugify(strings.Repeat("ab ", 30)), 40)
}

func TestCode(t *testing.T) {
	c, err := Code("category", "", "official")
	require.NoError(t, err)
	assert.Equal(t, "official", c)

	c, err = Code("category", "Live Event", "official")
	require.NoError(t, err)
	assert.Equal(t, "live_event", c)

	_, err = Code("event_type", "!", "")
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.ErrorContains(t, err, `event_type "!" is not a valid code`)
}
