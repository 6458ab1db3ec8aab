package sitelayout

// Point is a location in the shared planar coordinate frame.
type Point struct {
	X float64
	Y float64
}

// ElevationSample is a sparse ground elevation observation, usually a
// contour vertex from the geometry-ingestion side.
type ElevationSample struct {
	X float64
	Y float64
	Z float64
}

// Zone is a forbidden polygon plus a setback. The effective forbidden
// region is the ring dilated by Buffer.
type Zone struct {
	// ID is echoed back in diagnostics when the zone blocks something
	ID string

	// Ring is the zone polygon, closed implicitly (don't repeat the
	// first point)
	Ring []Point

	// Buffer is the setback distance around the ring
	Buffer float64
}

// Request carries everything one optimization run needs. All geometry
// shares a single planar coordinate frame; Frame is informational only.
//
// Regulatory zones are folded into Exclusions before the pipeline runs,
// so callers that pre-fetch regulatory geometry elsewhere just append
// it here. Both lists may be empty.
type Request struct {
	Boundary     []Point
	Exclusions   []Zone
	Regulatory   []Zone
	Samples      []ElevationSample
	Requirements []AssetRequirement
	Entry        Point
	Frame        string

	// Advisory optionally perturbs candidate ranking. May be nil;
	// the engine must produce a valid layout without it.
	Advisory Advisory
}

// PlacedAsset is one sited asset.
type PlacedAsset struct {
	ID     string
	Type   string
	Anchor Point

	// Footprint is the placed rectangle as a ring
	Footprint []Point

	// Score is the candidate score that won this spot
	Score float64

	// PadElevation is the flat pad grade chosen during cut/fill
	PadElevation float64

	// Unreachable is set if the road network could not connect this
	// asset within grade / exclusion limits
	Unreachable bool
}

// UnsatisfiedRequirement reports a requirement we could not fully meet.
type UnsatisfiedRequirement struct {
	Type      string
	Requested int
	Placed    int
	Reason    string
}

// RoadClass distinguishes trunk access roads from spurs.
type RoadClass string

const (
	RoadPrimary   RoadClass = "primary"
	RoadSecondary RoadClass = "secondary"
)

// RoadSegment is one stretch of road. Shared trunk stretches are stored
// once and list every asset they serve in AssetIDs.
type RoadSegment struct {
	ID         string
	Class      RoadClass
	Width      float64
	Centerline []Point

	// RightOfWay is the corridor ring from buffering the centerline
	// by half the class width
	RightOfWay []Point

	// GradePct holds the percent grade of each centerline leg
	// (len = len(Centerline)-1)
	GradePct []float64

	// MaxGradePct is the steepest leg, for quick checks
	MaxGradePct float64

	Length   float64
	AssetIDs []string
}

// RoadNetwork connects the entry point to every placed asset, or flags
// the ones it could not reach.
type RoadNetwork struct {
	Segments    []*RoadSegment
	Unreachable []string
	TotalLength float64
}

// CutFillCell is one sampling cell of the earthwork grid.
type CutFillCell struct {
	Col      int
	Row      int
	Existing float64
	Proposed float64

	// Volume is signed: positive fill, negative cut
	Volume float64
}

// VolumePair is cut & fill for a single entity, both positive.
type VolumePair struct {
	Cut  float64
	Fill float64
}

// CutFillSummary aggregates earthwork volumes over the sampling grid.
// Volumes are in cubic (distance-unit)^3; the Yd3 fields assume the
// frame unit is feet.
type CutFillSummary struct {
	TotalCut  float64
	TotalFill float64

	// Net = TotalCut - TotalFill
	Net float64

	CutYd3  float64
	FillYd3 float64
	NetYd3  float64

	// SiteAcres and NetYd3PerAcre put the net volume in per-area terms
	// (assuming a feet frame); filled in by the engine
	SiteAcres     float64
	NetYd3PerAcre float64

	PerAsset map[string]VolumePair
	PerRoad  map[string]VolumePair

	CellSize float64
	Cells    []CutFillCell
}

// ElevationStats summarises the interpolated surface.
type ElevationStats struct {
	Min   float64
	Max   float64
	Mean  float64
	Std   float64
	Range float64
}

// Warning is a recovered, per-entity failure. Stage names the pipeline
// step that raised it.
type Warning struct {
	Stage   string
	Entity  string
	Message string
}

// LayoutResult is the aggregate output of one optimization run. It is
// never mutated after construction; identical requests may share one.
type LayoutResult struct {
	Fingerprint string

	Assets      []*PlacedAsset
	Unsatisfied []UnsatisfiedRequirement
	Roads       *RoadNetwork
	Volumes     *CutFillSummary
	Elevation   ElevationStats

	Warnings []Warning
}
