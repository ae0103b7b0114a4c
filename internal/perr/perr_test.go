package perr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification_SurvivesWrapping(t *testing.T) {
	v := fmt.Errorf("building play: %w", Validationf("act", "Found gap in %ss, please defragment!", "act"))
	n := fmt.Errorf("loading: %w", NotFound("backdrop", "/x/backdrop.json"))
	m := fmt.Errorf("close: %w", Malformedf("queue entry %d is %T", 2, "s"))

	assert.True(t, IsValidation(v))
	assert.False(t, IsValidation(n))
	assert.True(t, IsNotFound(n))
	assert.True(t, IsMalformed(m))
	assert.False(t, IsMalformed(v))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "validation (scene): At least one scene is required", Validationf("scene", "At least one scene is required").Error())
	assert.Equal(t, "backdrop not found: /a/b", NotFound("backdrop", "/a/b").Error())
	assert.Equal(t, "malformed loop state: bad", Malformedf("bad").Error())
}
