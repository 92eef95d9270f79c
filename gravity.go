package planetwalk

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// MinGravity is the magnitude below which gravity is treated as absent.
const MinGravity = 0.001

// GravitySource is anything that pulls on the controller. The force law is up
// to the implementation.
type GravitySource interface {
	Force(position mgl32.Vec3) mgl32.Vec3
}

// GravitySourceFunc adapts a plain function to a GravitySource.
type GravitySourceFunc func(position mgl32.Vec3) mgl32.Vec3

func (f GravitySourceFunc) Force(position mgl32.Vec3) mgl32.Vec3 { return f(position) }

// SourceProvider discovers the gravity sources currently in the scene.
type SourceProvider interface {
	GravitySources() []GravitySource
}

// GravitySample is the combined pull at one point.
type GravitySample struct {
	Force     mgl32.Vec3
	Magnitude float32
	// Up is the negated gravity direction, or WorldUp in free fall.
	Up mgl32.Vec3
}

// InFreeFall reports whether no meaningful gravity acts at the sample point.
func (s GravitySample) InFreeFall() bool {
	return s.Magnitude <= MinGravity
}

func SampleFromForce(force mgl32.Vec3) GravitySample {
	mag := force.Len()
	up := WorldUp
	if mag > MinGravity {
		up = force.Mul(-1 / mag)
	}
	return GravitySample{Force: force, Magnitude: mag, Up: up}
}

// GravityAggregator sums the pull of every registered source. Sources are
// referenced, never owned.
type GravityAggregator struct {
	mu      sync.RWMutex
	sources *orderedmap.OrderedMap[uuid.UUID, GravitySource]
}

func NewGravityAggregator(sources ...GravitySource) *GravityAggregator {
	g := &GravityAggregator{
		sources: orderedmap.NewOrderedMap[uuid.UUID, GravitySource](),
	}
	for _, src := range sources {
		g.Add(src)
	}
	return g
}

// Add registers a source and returns the handle it can be removed with.
func (g *GravityAggregator) Add(src GravitySource) uuid.UUID {
	id := uuid.New()
	g.mu.Lock()
	g.sources.Set(id, src)
	g.mu.Unlock()
	return id
}

func (g *GravityAggregator) Remove(id uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sources.Delete(id)
}

// Rescan replaces the registry with whatever the provider reports and returns
// the new source count.
func (g *GravityAggregator) Rescan(provider SourceProvider) int {
	found := orderedmap.NewOrderedMap[uuid.UUID, GravitySource]()
	if provider != nil {
		for _, src := range provider.GravitySources() {
			if src == nil {
				continue
			}
			found.Set(uuid.New(), src)
		}
	}

	g.mu.Lock()
	g.sources = found
	g.mu.Unlock()
	return found.Len()
}

func (g *GravityAggregator) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sources.Len()
}

// TotalForce is the sum of every source's force at position. The registry
// cannot change while the sum is taken.
func (g *GravityAggregator) TotalForce(position mgl32.Vec3) mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	total := mgl32.Vec3{}
	for el := g.sources.Front(); el != nil; el = el.Next() {
		total = total.Add(el.Value.Force(position))
	}
	return total
}

func (g *GravityAggregator) Sample(position mgl32.Vec3) GravitySample {
	return SampleFromForce(g.TotalForce(position))
}
