package planetwalk

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider []GravitySource

func (p staticProvider) GravitySources() []GravitySource { return p }

func TestGravityAggregator_NoSources(t *testing.T) {
	g := NewGravityAggregator()

	sample := g.Sample(mgl32.Vec3{3, 4, 5})
	assert.Equal(t, mgl32.Vec3{}, sample.Force)
	assert.Equal(t, float32(0), sample.Magnitude)
	assert.Equal(t, WorldUp, sample.Up)
	assert.True(t, sample.InFreeFall())
}

func TestGravityAggregator_SingleSource(t *testing.T) {
	g := NewGravityAggregator(UniformGravity{Gravity: mgl32.Vec3{0, -9.8, 0}})

	assert.Equal(t, mgl32.Vec3{0, -9.8, 0}, g.TotalForce(mgl32.Vec3{}))
}

func TestGravityAggregator_SumsSources(t *testing.T) {
	g := NewGravityAggregator(
		UniformGravity{Gravity: mgl32.Vec3{0, -9.8, 0}},
		UniformGravity{Gravity: mgl32.Vec3{0, -0.2, 0}},
	)

	sample := g.Sample(mgl32.Vec3{})
	assertVecNear(t, mgl32.Vec3{0, -10, 0}, sample.Force, 1e-5)
	assert.InDelta(t, 10.0, sample.Magnitude, 1e-5)
	assertVecNear(t, WorldUp, sample.Up, 1e-6)
	assert.False(t, sample.InFreeFall())
}

func TestGravityAggregator_IsLinear(t *testing.T) {
	a := GravitySourceFunc(func(p mgl32.Vec3) mgl32.Vec3 { return p.Mul(-0.5) })
	b := NewPlanet("b", mgl32.Vec3{10, 0, 0}, 2, 4)
	c := UniformGravity{Gravity: mgl32.Vec3{1, 2, 3}}
	pos := mgl32.Vec3{1, 7, -2}

	g := NewGravityAggregator(a, b, c)
	want := a.Force(pos).Add(b.Force(pos)).Add(c.Force(pos))
	assertVecNear(t, want, g.TotalForce(pos), 1e-5)
}

func TestGravityAggregator_AddRemove(t *testing.T) {
	g := NewGravityAggregator()
	id := g.Add(UniformGravity{Gravity: mgl32.Vec3{0, -1, 0}})
	g.Add(UniformGravity{Gravity: mgl32.Vec3{0, -2, 0}})
	require.Equal(t, 2, g.Len())

	assert.True(t, g.Remove(id))
	assert.False(t, g.Remove(id), "second remove of the same handle")
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, mgl32.Vec3{0, -2, 0}, g.TotalForce(mgl32.Vec3{}))
}

func TestGravityAggregator_Rescan(t *testing.T) {
	g := NewGravityAggregator(UniformGravity{Gravity: mgl32.Vec3{5, 0, 0}})

	n := g.Rescan(staticProvider{
		UniformGravity{Gravity: mgl32.Vec3{0, -3, 0}},
		nil,
		UniformGravity{Gravity: mgl32.Vec3{0, -1, 0}},
	})
	assert.Equal(t, 2, n, "nil entries are skipped")
	assert.Equal(t, mgl32.Vec3{0, -4, 0}, g.TotalForce(mgl32.Vec3{}))

	assert.Equal(t, 0, g.Rescan(nil))
	assert.Equal(t, mgl32.Vec3{}, g.TotalForce(mgl32.Vec3{}))
}

func TestGravityAggregator_ConcurrentRescan(t *testing.T) {
	scene := &Scene{Planets: []*Planet{NewPlanet("p", mgl32.Vec3{}, 10, 9.8)}}
	g := NewGravityAggregator()
	g.Rescan(scene)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				g.Rescan(scene)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f := g.TotalForce(mgl32.Vec3{0, 10, 0})
				if !vecNear(f, mgl32.Vec3{0, -9.8, 0}, 1e-4) {
					t.Errorf("torn read: %v", f)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSampleFromForce_BelowThreshold(t *testing.T) {
	s := SampleFromForce(mgl32.Vec3{0, 0.0005, 0})
	assert.True(t, s.InFreeFall())
	assert.Equal(t, WorldUp, s.Up)
}

func TestPlanet_Force(t *testing.T) {
	p := NewPlanet("home", mgl32.Vec3{0, 0, 0}, 10, 9.8)

	tests := []struct {
		name string
		pos  mgl32.Vec3
		want mgl32.Vec3
	}{
		{"surface", mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, -9.8, 0}},
		{"double radius", mgl32.Vec3{20, 0, 0}, mgl32.Vec3{-9.8 / 4, 0, 0}},
		{"inside", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -4.9}},
		{"center", mgl32.Vec3{}, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVecNear(t, tt.want, p.Force(tt.pos), 1e-5)
		})
	}
}

func TestPlanet_SpinAndSurfacePoint(t *testing.T) {
	p := NewPlanet("moon", mgl32.Vec3{0, 100, 0}, 5, 1)
	p.RotationSpeed = 1
	for i := 0; i < 10; i++ {
		p.Spin(0.1)
	}
	assert.InDelta(t, 1.0, p.Rotation.Len(), 1e-5)
	assertVecNear(t, mgl32.Vec3{0, 0, 1}.Mul(5).Add(p.Center), p.SurfacePoint(mgl32.Vec3{0, 100, 40}), 1e-5)

	before := p.Force(mgl32.Vec3{0, 110, 0})
	p.Spin(1)
	assert.Equal(t, before, p.Force(mgl32.Vec3{0, 110, 0}), "spin does not change the pull")
}

func TestScene_GravitySources(t *testing.T) {
	scene := &Scene{
		Planets: []*Planet{NewPlanet("a", mgl32.Vec3{}, 1, 1), NewPlanet("b", mgl32.Vec3{9, 0, 0}, 1, 1)},
		Extra:   []GravitySource{UniformGravity{}},
	}
	assert.Len(t, scene.GravitySources(), 3)
}
