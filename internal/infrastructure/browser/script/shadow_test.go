package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"vethub-sync/internal/domain/entity"
)

func TestShadowWalk_UsesClickableSet(t *testing.T) {
	assert.Contains(t, ShadowWalk, ClickableCSS)
	for _, sel := range []string{"button", "input", `[class*="btn" i]`, `[class*="button" i]`, `[role="button"]`, "[onclick]"} {
		assert.Contains(t, ClickableCSS, sel)
	}
	assert.NotContains(t, strings.Split(ClickableCSS, ", "), "a", "bare anchors are not buttons")

	for _, typ := range ClickableInputTypes {
		assert.Contains(t, ShadowWalk, "'"+typ+"'")
	}
}

func TestShadowWalkArgs(t *testing.T) {
	args := ShadowWalkArgs(entity.SearchTarget{Text: "Skip", ExactMatch: true}, true)
	assert.Equal(t, map[string]any{
		"text":            "Skip",
		"caseSensitive":   false,
		"exact":           true,
		"includeDisabled": false,
		"click":           true,
	}, args)
}
