// ABOUTME: JSON export record for the current best candidate
// ABOUTME: Builds and marshals a Record from a Candidate

// Package export serialises the current best candidate as the small
// JSON-shaped record spec.md §6 defines, the only on-request output the
// core produces; writing it to disk or shipping it elsewhere is left to
// the embedding layer.
package export

import (
	"encoding/json"

	"github.com/sthamann/lagrangian-evolve/constants"
	"github.com/sthamann/lagrangian-evolve/genome"
)

// Record is the JSON shape spec.md §6 defines for an on-request export.
type Record struct {
	Coeffs     [constants.NumOps]float64 `json:"coeffs"`
	Timestamp  int64                     `json:"timestamp"`
	Generation int                       `json:"generation"`
	Fitness    float64                   `json:"fitness"`
	CModel     float64                   `json:"c_model"`
	AlphaModel float64                   `json:"alpha_model"`
	GModel     float64                   `json:"g_model"`
	DeltaC     float64                   `json:"delta_c"`
	DeltaAlpha float64                   `json:"delta_alpha"`
	DeltaG     float64                   `json:"delta_g"`
}

// FromCandidate builds a Record from a Candidate and a caller-supplied
// Unix timestamp (this package never calls time.Now itself, keeping
// export deterministic and testable).
func FromCandidate(c genome.Candidate, timestamp int64) Record {
	return Record{
		Coeffs:     c.Genome,
		Timestamp:  timestamp,
		Generation: c.Generation,
		Fitness:    c.Fitness,
		CModel:     c.CModel,
		AlphaModel: c.AlphaModel,
		GModel:     c.GModel,
		DeltaC:     c.DeltaC,
		DeltaAlpha: c.DeltaAlpha,
		DeltaG:     c.DeltaG,
	}
}

// Marshal renders a Record as indented JSON, matching the shape of
// spec.md §6's example.
func Marshal(r Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
