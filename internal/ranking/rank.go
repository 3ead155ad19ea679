// Package ranking orders resumes by embedding similarity to a job description.
// It is an alternative to skill matching and never feeds the ATS score.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-screener/internal/types"
)

// DefaultConcurrency bounds parallel embedding requests when none is given.
const DefaultConcurrency = 4

// ErrEmptyJobDescription is returned when there is nothing to rank against.
var ErrEmptyJobDescription = errors.New("job description is empty")

// Embedder turns text into a dense vector. llm.Client satisfies it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Candidate is a resume's extracted text.
type Candidate struct {
	Filename string
	Text     string
}

// Rank embeds the job description and every candidate, then returns candidates
// sorted by cosine similarity, highest first. Ties keep input order.
func Rank(ctx context.Context, embedder Embedder, jobDescription string, candidates []Candidate, concurrency int) ([]types.RankedResume, error) {
	if jobDescription == "" {
		return nil, ErrEmptyJobDescription
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	jdVector, err := embedder.Embed(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	similarities := make([]float64, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, c := range candidates {
		g.Go(func() error {
			vector, err := embedder.Embed(gCtx, c.Text)
			if err != nil {
				return fmt.Errorf("failed to embed %s: %w", c.Filename, err)
			}
			similarities[i] = CosineSimilarity(jdVector, vector)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]types.RankedResume, len(candidates))
	for i, c := range candidates {
		ranked[i] = types.RankedResume{
			Filename:   c.Filename,
			Similarity: similarities[i],
			Percent:    math.Round(similarities[i]*100*100) / 100,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different length or with zero magnitude score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
