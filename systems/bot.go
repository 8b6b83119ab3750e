package systems

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/navmesh"
	"github.com/automoto/drake/scene"
)

var botLog = logrus.WithField("component", "bot")

// UpdateBots runs every bot: the actor state machine first, then a straight
// run along the navmesh to the first target, jumping over edges.
func UpdateBots(sc *scene.Scene) {
	components.Bot.Each(sc.World, func(entry *donburi.Entry) {
		updateBot(sc, entry)
	})
}

func updateBot(sc *scene.Scene, entry *donburi.Entry) {
	self := entry.Entity()
	bot := components.Bot.Get(entry)
	actor := components.Actor.Get(entry)
	UpdateActor(sc, actor)

	target, ok := FirstTarget(sc)
	if !ok {
		return
	}
	targetPos, _ := sc.GlobalPosition(target)

	probeOrigin, ok := sc.GlobalPosition(bot.ProbeLocator)
	if !ok {
		botLog.Warnf("bot %v has no ground probe locator", self)
	}

	rb := graph.Get(sc.Graph, self, components.RigidBody)
	if rb == nil {
		return
	}
	selfPos, _ := sc.GlobalPosition(self)
	currentY := rb.LinVel.Y()
	dt := sc.DT()

	steerAgent(sc, bot, selfPos, targetPos, dt)

	var horizontal mgl32.Vec3
	if bot.Agent.Target().Sub(selfPos).Len() > cfg.Bot.ArriveDistance && dt > 0 {
		horizontal = bot.Agent.Position().Sub(selfPos).Mul(1 / dt)
		horizontal[1] = 0
	}

	yVel := currentY
	if HasGroundContact(sc, actor.Collider) {
		probed, hit := ProbeGround(sc, probeOrigin, cfg.Bot.ProbeMaxHeight)
		if !hit || probed.Sub(probeOrigin).Len() > cfg.Bot.EdgeDepth {
			actor.Jump = true
			yVel = cfg.Bot.JumpVelocity
		}
	}

	rb.LinVel = mgl32.Vec3{horizontal.X(), yVel, horizontal.Z()}

	running := actor.StandUpTimer <= 0 && horizontal.Len() > cfg.Bot.RunThreshold
	if running {
		sc.SetLocalRotation(self, faceTowards(horizontal))
	}

	if absm := graph.Get(sc.Graph, bot.Absm, components.Absm); absm != nil {
		absm.SetRule("Run", running)
		absm.SetRule("Jump", actor.Jump)
	}
}

// steerAgent advances the bot's agent. Without a navmesh the agent heads
// straight for the target.
func steerAgent(sc *scene.Scene, bot *components.BotData, selfPos, targetPos mgl32.Vec3, dt float32) {
	if bot.Agent == nil {
		bot.Agent = navmesh.NewAgent()
	}
	agent := bot.Agent
	agent.SetSpeed(bot.Speed)
	agent.SetTarget(targetPos)
	agent.SetPosition(selfPos)

	if bot.Navmesh == nil {
		d := mgl32.Vec3{targetPos.X() - selfPos.X(), 0, targetPos.Z() - selfPos.Z()}
		if l := d.Len(); l > 0 {
			agent.SetPosition(selfPos.Add(d.Mul(min(bot.Speed*dt, l) / l)))
		}
		return
	}
	err := bot.Navmesh.Read(func(m *navmesh.Navmesh) error {
		return agent.Update(dt, m)
	})
	if err != nil {
		botLog.WithError(err).Debug("agent update")
	}
}

// faceTowards returns the rotation about Y that turns +Z towards dir.
func faceTowards(dir mgl32.Vec3) mgl32.Quat {
	return mgl32.QuatRotate(math32.Atan2(dir.X(), dir.Z()), mgl32.Vec3{0, 1, 0})
}
