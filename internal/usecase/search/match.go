package search

import (
	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
)

// Match is the result of a successful search: either Found, carrying a
// handle, or FoundInShadow, where no portable handle exists and the element
// has to be re-located in page. A nil Match means nothing was found.
type Match interface {
	SurfaceID() string
	isMatch()
}

type Found struct {
	Surface string
	Locator entity.Locator
	Element output.ElementPort
}

func (Found) isMatch()            {}
func (m Found) SurfaceID() string { return m.Surface }

type FoundInShadow struct{}

const ShadowSurface = "shadow-dom"

func (FoundInShadow) isMatch()          {}
func (FoundInShadow) SurfaceID() string { return ShadowSurface }
