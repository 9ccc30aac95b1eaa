// Package ornament runs the blinker proper. The service resolves its
// board and profile from retained config, assembles the sensor, the
// animation engine, and the power scheduler, and drives the two-state
// controller. State, cycle, and sensor traffic goes out on the bus;
// a retained copy of the current state sits at ornament/state for
// late subscribers.
package ornament

import (
	"context"
	"sync"

	"blinker-go/bus"
	"blinker-go/errcode"
	"blinker-go/services/ornament/hw"
	"blinker-go/services/ornament/internal/anim"
	"blinker-go/services/ornament/internal/control"
	"blinker-go/services/ornament/internal/power"
	"blinker-go/services/ornament/internal/sense"
	"blinker-go/services/ornament/internal/xabc"
	"blinker-go/types"
	"blinker-go/x/timex"
)

const serviceName = "ornament"

// stepHz paces ticked ramps at 1 ms per step.
const stepHz = 1000

var (
	topicConfigOrnament = bus.Topic{"config", "ornament"}
	topicState          = bus.Topic{"ornament", "state"}
	topicEventState     = bus.Topic{"ornament", "event", "state"}
	topicEventCycle     = bus.Topic{"ornament", "event", "cycle"}
	topicEventSensor    = bus.Topic{"ornament", "event", "sensor"}
	topicControlStatus  = bus.Topic{"ornament", "control", "status"}
)

type Service struct {
	// SleepScale divides every scheduler sleep; simulators set it to
	// compress a night of schedule into seconds. 0 or 1 is real time.
	SleepScale int

	conn *bus.Connection

	mu    sync.Mutex
	level types.Level
	cycle int
	night bool
	sched *power.Scheduler
}

// Start launches the service. Wiring failures are reported as a retained
// stopped state rather than a crash so the console and the bus both see
// what happened.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	s.conn = conn
	s.level = types.LevelBoot
	go func() {
		if err := s.serviceLoop(ctx, conn); err != nil {
			println("[ornament] error:", err.Error())
			s.publishState(types.LevelStopped, string(errcode.Of(err)))
		}
	}()
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) error {
	cfg, err := awaitConfig(ctx, conn)
	if err != nil {
		return err
	}
	p := cfg.Profile

	factory, ok := hw.FindBoard(p.Board)
	if !ok {
		return &errcode.E{C: errcode.UnknownBoard, Op: serviceName, Msg: "no board " + p.Board}
	}
	board, err := factory(hw.BoardRequest{SensePin: p.SensePin, BankPins: p.BankPins, Bank: string(p.Bank)})
	if err != nil {
		return err
	}

	sched := power.NewScheduler()
	if s.SleepScale > 1 {
		sched.Scale = s.SleepScale
	}
	s.mu.Lock()
	s.sched = sched
	s.mu.Unlock()

	var step anim.StepDelay
	switch p.Step {
	case types.StepSpin:
		step = anim.NewSpin(p.ClockHz)
	case types.StepTicked:
		step = anim.NewTicked(stepHz)
	default:
		return &errcode.E{C: errcode.Unsupported, Op: serviceName, Msg: "step kind " + string(p.Step)}
	}

	budget := p.CycleBudget
	if cfg.CycleBudget > 0 {
		budget = cfg.CycleBudget
	}

	engine := anim.NewEngine(xabc.New(), board.Bank, step, sched, idleSleep(p.IdleMs))
	sensor := sense.New(board.Sense, sched)
	ctrl := control.New(engine, sensor, sched, budget, s)

	go s.answerStatus(ctx, conn)

	println("[ornament] board", board.Name, "profile", p.Name)
	s.publishState(types.LevelBoot, "starting")
	ctrl.Run(ctx)
	println("[ornament] stopped")
	return nil
}

// awaitConfig blocks until the retained ornament section arrives. Profiles
// are compiled in, so a changed section only applies on restart; the first
// message wins.
func awaitConfig(ctx context.Context, conn *bus.Connection) (types.OrnamentConfig, error) {
	sub := conn.Subscribe(topicConfigOrnament)
	defer conn.Unsubscribe(sub)

	select {
	case <-ctx.Done():
		return types.OrnamentConfig{}, ctx.Err()
	case m, ok := <-sub.Channel():
		if !ok {
			return types.OrnamentConfig{}, bus.ErrClosed
		}
		cfg, ok := m.Payload.(types.OrnamentConfig)
		if !ok {
			return types.OrnamentConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: serviceName, Msg: "config/ornament payload"}
		}
		return cfg, nil
	}
}

// answerStatus serves ornament/control/status with a snapshot reply.
func (s *Service) answerStatus(ctx context.Context, conn *bus.Connection) {
	sub := conn.Subscribe(topicControlStatus)
	defer conn.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-sub.Channel():
			if !ok {
				return
			}
			if !m.CanReply() {
				continue
			}
			conn.Reply(m, s.status(), false)
		}
	}
}

func (s *Service) status() types.StatusReply {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := types.StatusReply{OK: true, Level: s.level, Cycle: s.cycle, Night: s.night}
	if s.sched != nil {
		r.WakeDrops = s.sched.Drops()
	}
	return r
}

// idleSleep maps the profile's idle interval onto the watchdog menu.
func idleSleep(ms uint32) power.SleepDuration {
	if ms <= 500 {
		return power.Sleep500ms
	}
	return power.Sleep1s
}

func (s *Service) publishState(level types.Level, status string) {
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
	s.conn.Publish(&bus.Message{
		Topic:    topicState,
		Payload:  types.OrnamentState{Level: level, Status: status, TS: timex.NowMs()},
		Retained: true,
	})
}

// -----------------------------------------------------------------------------
// control.Events
//
// These run on the controller's goroutine between cycles, so they only
// take the snapshot lock and hand messages to the bus.
// -----------------------------------------------------------------------------

func (s *Service) StateChanged(from, to types.Level) {
	s.mu.Lock()
	s.level = to
	if to == types.LevelAnimating {
		s.cycle = 0
	}
	s.mu.Unlock()

	now := timex.NowMs()
	s.conn.Publish(&bus.Message{
		Topic:   topicEventState,
		Payload: types.StateChange{From: from, To: to, TS: now},
	})
	s.conn.Publish(&bus.Message{
		Topic:    topicState,
		Payload:  types.OrnamentState{Level: to, Status: statusFor(to), TS: now},
		Retained: true,
	})
}

func (s *Service) CycleDone(index int, target [3]uint8, idle bool) {
	s.mu.Lock()
	s.cycle = index + 1
	s.mu.Unlock()
	s.conn.Publish(&bus.Message{
		Topic:   topicEventCycle,
		Payload: types.CycleEvent{Index: index, Target: target, Idle: idle, TS: timex.NowMs()},
	})
}

func (s *Service) SensorRead(night bool) {
	s.mu.Lock()
	s.night = night
	s.mu.Unlock()
	s.conn.Publish(&bus.Message{
		Topic:   topicEventSensor,
		Payload: types.SensorReading{Night: night, TS: timex.NowMs()},
	})
}

func statusFor(level types.Level) string {
	switch level {
	case types.LevelAnimating:
		return "burst"
	case types.LevelAwaitNight:
		return "parked"
	case types.LevelStopped:
		return "stopped"
	default:
		return "starting"
	}
}
