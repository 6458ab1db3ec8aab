package sitelayout

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"math"
)

// Fingerprint returns a stable hex digest of everything that can change
// the layout: request geometry, samples, requirements and the effective
// config. Two requests with equal fingerprints are guaranteed the same
// result, which is what the cache and in-flight dedup key on.
//
// Encoding is length-prefixed binary over the raw float bits, so there
// is no formatting ambiguity to worry about.
func Fingerprint(req *Request, cfg Config) string {
	h := sha256.New()

	hashStr(h, "boundary")
	hashPoints(h, req.Boundary)

	hashStr(h, "exclusions")
	hashInt(h, len(req.Exclusions))
	for _, z := range req.Exclusions {
		hashZone(h, z)
	}

	hashStr(h, "regulatory")
	hashInt(h, len(req.Regulatory))
	for _, z := range req.Regulatory {
		hashZone(h, z)
	}

	hashStr(h, "samples")
	hashInt(h, len(req.Samples))
	for _, s := range req.Samples {
		hashF64(h, s.X)
		hashF64(h, s.Y)
		hashF64(h, s.Z)
	}

	hashStr(h, "requirements")
	hashInt(h, len(req.Requirements))
	for _, r := range req.Requirements {
		hashStr(h, r.Type)
		hashInt(h, r.Count)
		hashF64(h, r.Length)
		hashF64(h, r.Width)
		hashF64(h, r.MinSpacing)
		hashInt(h, len(r.SpacingTypes))
		for _, t := range r.SpacingTypes {
			hashStr(h, t)
		}
		hashF64(h, r.MaxSlopePct)
	}

	hashStr(h, "entry")
	hashF64(h, req.Entry.X)
	hashF64(h, req.Entry.Y)
	hashStr(h, req.Frame)

	hashStr(h, "config")
	for _, v := range []float64{
		cfg.CellSize, cfg.DefaultElevation, cfg.BoundaryBuffer,
		cfg.CandidateStep, cfg.MaxSlopePct, cfg.ComfortableGradePct,
		cfg.MaxRoadGradePct, cfg.RouteCellSize,
		cfg.PrimaryRoadWidth, cfg.SecondaryRoadWidth,
		cfg.Weights.Terrain, cfg.Weights.EntryDistance, cfg.Weights.ConstraintMargin,
		cfg.CutFillCellSize, cfg.CompactionFactor,
	} {
		hashF64(h, v)
	}

	// Nb. the advisory is deliberately outside the fingerprint from the
	// caller's point of view; engines treat the presence of one as a
	// cache bypass instead (see Optimize).

	return fmt.Sprintf("%x", h.Sum(nil))
}

func hashF64(h hash.Hash, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	h.Write(b[:])
}

func hashInt(h hash.Hash, v int) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	h.Write(b[:])
}

func hashStr(h hash.Hash, s string) {
	hashInt(h, len(s))
	h.Write([]byte(s))
}

func hashPoints(h hash.Hash, pts []Point) {
	hashInt(h, len(pts))
	for _, p := range pts {
		hashF64(h, p.X)
		hashF64(h, p.Y)
	}
}

func hashZone(h hash.Hash, z Zone) {
	hashStr(h, z.ID)
	hashPoints(h, z.Ring)
	hashF64(h, z.Buffer)
}
