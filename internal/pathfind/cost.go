package pathfind

import (
	"github.com/l1jgo/navgrid/internal/geom"
	"github.com/l1jgo/navgrid/internal/navmesh"
)

// Flags are the requester's traversal abilities.
type Flags uint8

const FlagsNone Flags = 0

const (
	// Prying lets the requester force access doors.
	Prying Flags = 1 << iota

	// Smashing lets the requester break destructible obstacles.
	Smashing

	// Interact lets the requester use things on the way.
	Interact

	// Access means the requester may open access-restricted doors.
	Access
)

// Door and obstacle cost modifiers, multiplied into the base distance.
const (
	doorModifier  = 0.5
	pryModifier   = 4
	smashModifier = 7

	// portalCost is the base cost of an edge between polygons on different
	// grids, which share no coordinate space.
	portalCost = 1
)

// TileCost returns the cost of stepping from one polygon into the next, or
// 0 when the destination is impassable for this requester.
func TileCost(flags Flags, layer, mask uint32, from, to *navmesh.PathPoly) float32 {
	modifier := float32(1)

	if to.Data.CollisionLayer&mask != 0 || to.Data.CollisionMask&layer != 0 {
		isDoor := to.Data.Flags&navmesh.FlagDoor != 0
		isAccess := to.Data.Flags&navmesh.FlagAccess != 0

		switch {
		case isDoor && (!isAccess || flags&Access != 0):
			modifier += doorModifier
		case isAccess && flags&Prying != 0:
			modifier += pryModifier
		case flags&Smashing != 0 && to.Data.Damage > 0:
			modifier += smashModifier + to.Data.Damage/100
		default:
			return 0
		}
	}

	if from.Grid != to.Grid {
		return modifier * portalCost
	}
	return modifier * geom.OctileDistance(from.Box.Center(), to.Box.Center())
}

// heuristicBias inflates the heuristic slightly so ties break toward the
// straight line.
const heuristicBias = 1 + 1.0/1000
