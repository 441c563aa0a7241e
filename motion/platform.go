package motion

import (
	"math"

	"github.com/milk9111/platformphys/common"
	"github.com/milk9111/platformphys/physics"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_out_quad":  ease.InOutQuad,
	"in_out_cubic": ease.InOutCubic,
	"in_out_sine":  ease.InOutSine,
	"out_bounce":   ease.OutBounce,
}

// Ease looks up an easing function by name, defaulting to linear.
func Ease(name string) ease.TweenFunc {
	if fn, ok := easings[name]; ok {
		return fn
	}
	return ease.Linear
}

// Platform drives an anchored body along a tweened path between two
// points. Anchored bodies are skipped by World.Update, so the platform
// moves the body itself and reindexes it.
type Platform struct {
	Body *physics.Body

	world    *physics.World
	from, to common.Vector2
	seq      *gween.Sequence
	pingPong bool
	delta    common.Vector2
	done     bool
}

// NewPlatform places b at from. duration is in the same units as the dt
// passed to Update. With pingPong the platform travels back and forth
// forever; otherwise it stops at to.
func NewPlatform(w *physics.World, b *physics.Body, from, to common.Vector2, duration float64, easing ease.TweenFunc, pingPong bool) *Platform {
	if easing == nil {
		easing = ease.Linear
	}
	seq := gween.NewSequence(gween.New(0, 1, float32(duration), easing))
	if pingPong {
		seq.Add(gween.New(1, 0, float32(duration), easing))
		seq.SetLoop(-1)
	}
	b.Anchored = true
	b.Position = from
	p := &Platform{Body: b, world: w, from: from, to: to, seq: seq, pingPong: pingPong}
	w.SyncBody(b)
	return p
}

// Update advances the tween by dt and moves the body.
func (p *Platform) Update(dt float64) {
	if p == nil {
		return
	}
	if p.done {
		p.delta = common.Zero
		p.Body.Velocity = common.Zero
		return
	}
	progress, _, finished := p.seq.Update(float32(dt))
	if finished && !p.pingPong {
		p.done = true
	}
	next := common.Vec(
		common.Lerp(p.from.X, p.to.X, float64(progress)),
		common.Lerp(p.from.Y, p.to.Y, float64(progress)),
	)
	p.delta = next.Sub(p.Body.Position)
	p.Body.Velocity = p.delta
	p.Body.Position = next
	p.world.SyncBody(p.Body)
}

// Delta is how far the platform moved on the last Update.
func (p *Platform) Delta() common.Vector2 {
	if p == nil {
		return common.Zero
	}
	return p.delta
}

// Carry moves rider along with the platform when it is standing on it.
func (p *Platform) Carry(rider *physics.Body) bool {
	if p == nil || rider == nil || p.delta == common.Zero || !rider.Floored {
		return false
	}
	prevTop := p.Body.Position.Y - p.delta.Y
	prevL := p.Body.Position.X - p.delta.X
	prevR := prevL + p.Body.Size.X
	if math.Abs(rider.Position.Y+rider.Size.Y-prevTop) > 1e-6 {
		return false
	}
	if rider.Position.X >= prevR || rider.Position.X+rider.Size.X <= prevL {
		return false
	}
	rider.Position = rider.Position.Add(p.delta)
	p.world.SyncBody(rider)
	return true
}
