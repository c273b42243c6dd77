// Package index reads the evidence store artifacts produced by the offline
// ingestion pipeline: a flat vector index file and a parallel JSON metadata
// array in strict 1:1 ordinal correspondence. Both are immutable after
// load, so a single Store is safe for concurrent request handling without
// locking.
package index

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// MetaRow is one metadata record, addressed by its ordinal position in the
// array. The position doubles as the passage id used in citations.
type MetaRow struct {
	Company string `json:"company"`
	Year    string `json:"year"`
	Page    int    `json:"page"`
	Chunk   string `json:"chunk"`
}

// Hit is one nearest-neighbour result: the ordinal id of the passage and
// its inner-product similarity against the query vector.
type Hit struct {
	ID    int
	Score float64
}

// Store holds the loaded vector index and metadata table.
type Store struct {
	dim       int
	vecs      [][]float32
	meta      []MetaRow
	companies []string
}

// Open loads the vector file and metadata file and verifies their ordinal
// correspondence. Vectors are assumed L2-normalized by the ingestion
// pipeline, so inner product equals cosine similarity.
func Open(vectorPath, metaPath string) (*Store, error) {
	vecData, err := os.ReadFile(vectorPath)
	if err != nil {
		return nil, eris.Wrapf(err, "index: read vectors %s", vectorPath)
	}
	dim, vecs, err := decodeVectors(vecData)
	if err != nil {
		return nil, eris.Wrapf(err, "index: decode vectors %s", vectorPath)
	}

	metaData, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, eris.Wrapf(err, "index: read metadata %s", metaPath)
	}
	var meta []MetaRow
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, eris.Wrapf(err, "index: decode metadata %s", metaPath)
	}

	if len(vecs) != len(meta) {
		return nil, eris.Errorf("index: %d vectors but %d metadata rows — artifacts are from different builds", len(vecs), len(meta))
	}

	var companies []string
	seen := make(map[string]bool)
	for _, row := range meta {
		if row.Company != "" && !seen[row.Company] {
			seen[row.Company] = true
			companies = append(companies, row.Company)
		}
	}

	zap.L().Info("index: evidence store loaded",
		zap.Int("passages", len(meta)),
		zap.Int("dim", dim),
		zap.Int("companies", len(companies)),
	)

	return &Store{dim: dim, vecs: vecs, meta: meta, companies: companies}, nil
}

// Len returns the number of passages in the store.
func (s *Store) Len() int { return len(s.meta) }

// Dim returns the embedding dimension, 0 for an empty store.
func (s *Store) Dim() int { return s.dim }

// Companies returns the distinct company names in first-seen order.
func (s *Store) Companies() []string {
	return append([]string(nil), s.companies...)
}

// Get returns the metadata row for an ordinal passage id.
func (s *Store) Get(id int) (MetaRow, bool) {
	if id < 0 || id >= len(s.meta) {
		return MetaRow{}, false
	}
	return s.meta[id], true
}

// Search returns the k nearest passages by inner product, highest first.
// k <= 0 or an empty store yields no hits, never an error.
func (s *Store) Search(query []float32, k int) ([]Hit, error) {
	if k <= 0 || len(s.vecs) == 0 {
		return nil, nil
	}
	if len(query) != s.dim {
		return nil, eris.Errorf("index: query dim %d != index dim %d", len(query), s.dim)
	}

	hits := make([]Hit, 0, len(s.vecs))
	for i, v := range s.vecs {
		score := dot(query, v)
		if math.IsNaN(score) {
			continue
		}
		hits = append(hits, Hit{ID: i, Score: score})
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].ID < hits[b].ID
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
