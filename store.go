package glowtree

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
)

// Tag selects a particle's color variant. It never changes with the mode.
type Tag uint8

const (
	TagNeedle Tag = iota // batch A, p=0.7
	TagLight             // batch A, p=0.3
	TagBauble            // batch B, p=0.6
	TagGold              // batch B, p=0.4
	tagCount
)

// Batch identifies one of the two render batches particles are split into.
type Batch uint8

const (
	BatchA Batch = iota
	BatchB
)

// Particle is one animated point. Position is mutated every frame by the
// driver; Index and Tag are fixed for the lifetime of the generation.
type Particle struct {
	Index    int
	Batch    Batch
	Tag      Tag
	Position Vec3
}

// TargetSet holds the three precomputed formations, indexed like the particles.
type TargetSet struct {
	Tree    []Vec3
	Explode []Vec3
	Text    []Vec3
}

// For returns the target slice for mode m.
func (t *TargetSet) For(m Mode) []Vec3 {
	switch m {
	case ModeExplode:
		return t.Explode
	case ModeText:
		return t.Text
	default:
		return t.Tree
	}
}

// Generation is an immutable-length snapshot of particles and their targets.
// A new Generation is built on every rebuild and published atomically.
type Generation struct {
	Serial    uint64
	Text      string
	Particles []Particle
	Targets   TargetSet
	// SplitA is the number of particles in BatchA; the rest are in BatchB.
	SplitA int
}

// Len returns the particle count.
func (g *Generation) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Particles)
}

// Tags returns a copy of the particle tags in index order.
func (g *Generation) Tags() []Tag {
	if g == nil {
		return nil
	}
	tags := make([]Tag, len(g.Particles))
	for i := range g.Particles {
		tags[i] = g.Particles[i].Tag
	}
	return tags
}

func (g *Generation) batchTags(b Batch) []Tag {
	if g == nil {
		return nil
	}
	if b == BatchA {
		return g.Tags()[:g.SplitA]
	}
	return g.Tags()[g.SplitA:]
}

// Store owns the current Generation. Rebuild may be called from any
// goroutine; readers load the current generation once per frame.
type Store struct {
	mu     sync.Mutex
	gen    *Generator
	rng    *rand.Rand
	serial uint64
	cur    atomic.Pointer[Generation]
}

// NewStore creates an empty store. A nil rng draws tags from the global source.
func NewStore(gen *Generator, rng *rand.Rand) *Store {
	if gen == nil {
		gen = NewGenerator(DefaultShape(), rng)
	}
	return &Store{gen: gen, rng: rng}
}

// Generator returns the position generator used on rebuild.
func (s *Store) Generator() *Generator {
	return s.gen
}

// Current returns the published generation, or nil before the first rebuild.
func (s *Store) Current() *Generation {
	return s.cur.Load()
}

// Rebuild regenerates all three target sets for count particles, places
// every particle on its tree position and publishes the result. Tags of a
// batch are kept when that batch's size is unchanged.
func (s *Store) Rebuild(count int, text string) (*Generation, error) {
	if count <= 0 {
		return nil, fmt.Errorf("rebuild %d: %w", count, ErrInvalidCount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cur.Load()
	splitA := count / 2

	tagsA := prev.batchTags(BatchA)
	if len(tagsA) != splitA {
		tagsA = s.drawTags(splitA, TagNeedle, TagLight, 0.7)
	}
	tagsB := prev.batchTags(BatchB)
	if len(tagsB) != count-splitA {
		tagsB = s.drawTags(count-splitA, TagBauble, TagGold, 0.6)
	}

	s.serial++
	g := &Generation{
		Serial: s.serial,
		Text:   text,
		SplitA: splitA,
		Targets: TargetSet{
			Tree:    s.gen.Tree(count),
			Explode: s.gen.Explode(count),
			Text:    s.gen.Text(text, count),
		},
		Particles: make([]Particle, count),
	}
	for i := range g.Particles {
		p := &g.Particles[i]
		p.Index = i
		p.Position = g.Targets.Tree[i]
		if i < splitA {
			p.Batch = BatchA
			p.Tag = tagsA[i]
		} else {
			p.Batch = BatchB
			p.Tag = tagsB[i-splitA]
		}
	}

	s.cur.Store(g)
	log.Printf("[glowtree] rebuilt generation %d: %d particles (batch A %d, batch B %d)",
		g.Serial, count, splitA, count-splitA)
	return g, nil
}

// drawTags assigns primary with probability p, otherwise secondary, per particle.
func (s *Store) drawTags(n int, primary, secondary Tag, p float64) []Tag {
	tags := make([]Tag, n)
	for i := range tags {
		if randFloat(s.rng) < p {
			tags[i] = primary
		} else {
			tags[i] = secondary
		}
	}
	return tags
}
