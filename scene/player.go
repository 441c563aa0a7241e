package scene

import (
	"github.com/milk9111/platformphys/common"
	"github.com/milk9111/platformphys/physics"
	"github.com/milk9111/platformphys/prefabs"
)

// Input is one frame of player controls. MoveX is -1, 0 or 1.
type Input struct {
	MoveX float64
	Jump  bool
}

// playerState is the interface each concrete player state implements.
type playerState interface {
	HandleInput(p *Player, in Input)
	OnPhysics(p *Player)
	Name() string
}

type idleState struct{}

func (idleState) Name() string { return "idle" }
func (idleState) HandleInput(p *Player, in Input) {
	if p.jumpPressedNow {
		p.jump()
		return
	}
	if in.MoveX != 0 {
		p.state = stateRunning
	}
}
func (idleState) OnPhysics(p *Player) {
	if !p.Body.Floored {
		p.startFalling(p.Spec.CoyoteFrames)
	}
}

type runningState struct{}

func (runningState) Name() string { return "running" }
func (runningState) HandleInput(p *Player, in Input) {
	if p.jumpPressedNow {
		p.jump()
		return
	}
	if in.MoveX == 0 {
		p.state = stateIdle
	}
}
func (runningState) OnPhysics(p *Player) {
	if !p.Body.Floored {
		p.startFalling(p.Spec.CoyoteFrames)
	}
}

type jumpingState struct{}

func (jumpingState) Name() string { return "jumping" }
func (jumpingState) HandleInput(p *Player, in Input) {
	if p.jumpPressedNow {
		p.jumpBufferTimer = p.Spec.JumpBufferFrames
	}
}
func (jumpingState) OnPhysics(p *Player) {
	if p.Body.Floored {
		p.land()
		return
	}
	if p.Body.Velocity.Y > 0 {
		p.startFalling(0)
	}
}

type fallingState struct{}

func (fallingState) Name() string { return "falling" }
func (fallingState) HandleInput(p *Player, in Input) {
	if !p.jumpPressedNow {
		return
	}
	if p.coyoteTimer > 0 {
		p.coyoteTimer = 0
		p.jump()
		return
	}
	p.jumpBufferTimer = p.Spec.JumpBufferFrames
}
func (fallingState) OnPhysics(p *Player) {
	if p.Body.Floored {
		p.land()
	}
}

// singletons for each state to avoid allocating on every transition
var (
	stateIdle    playerState = &idleState{}
	stateRunning playerState = &runningState{}
	stateJumping playerState = &jumpingState{}
	stateFalling playerState = &fallingState{}
)

// Player drives a body from input with coyote time and jump buffering.
type Player struct {
	Body *physics.Body
	Spec *prefabs.PlayerSpec

	state           playerState
	moveX           float64
	prevJump        bool
	jumpPressedNow  bool
	coyoteTimer     int
	jumpBufferTimer int
}

func NewPlayer(b *physics.Body, spec *prefabs.PlayerSpec) *Player {
	return &Player{Body: b, Spec: spec, state: stateIdle}
}

// State returns the name of the current state.
func (p *Player) State() string {
	return p.state.Name()
}

// HandleInput runs before the world step.
func (p *Player) HandleInput(in Input) {
	p.jumpPressedNow = in.Jump && !p.prevJump
	p.prevJump = in.Jump
	p.moveX = common.Sign(in.MoveX)

	p.state.HandleInput(p, in)
	p.Body.Velocity = common.Vec(p.moveX*p.Spec.MoveSpeed, p.Body.Velocity.Y)
}

// OnPhysics runs after the world step.
func (p *Player) OnPhysics() {
	p.state.OnPhysics(p)
	if p.coyoteTimer > 0 {
		p.coyoteTimer--
	}
	if p.jumpBufferTimer > 0 {
		p.jumpBufferTimer--
	}
}

func (p *Player) jump() {
	p.jumpBufferTimer = 0
	p.coyoteTimer = 0
	p.Body.Velocity = common.Vec(p.Body.Velocity.X, -p.Spec.JumpSpeed)
	p.state = stateJumping
}

func (p *Player) startFalling(coyote int) {
	p.coyoteTimer = coyote
	p.state = stateFalling
}

func (p *Player) land() {
	if p.jumpBufferTimer > 0 {
		p.jump()
		return
	}
	if p.moveX != 0 {
		p.state = stateRunning
	} else {
		p.state = stateIdle
	}
}
