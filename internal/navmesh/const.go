package navmesh

const (
	// ChunkSize is the chunk edge length in tiles.
	ChunkSize = 8

	// SubStep is how many breadcrumbs each tile is split into per axis.
	SubStep = 4

	// CrumbsPerSide is the chunk edge length in breadcrumbs.
	CrumbsPerSide = ChunkSize * SubStep

	// StepOffset is half a breadcrumb. Breadcrumbs are sampled at their
	// centers and polygon boxes are enlarged by this much for adjacency.
	StepOffset = float32(1) / SubStep / 2

	// minNeighborOverlap is the enlarged-intersection area two polygons need
	// to count as neighbors. Shared edges shorter than two breadcrumbs and
	// corner touches fall below it.
	minNeighborOverlap = float32(0.5) / SubStep
)
