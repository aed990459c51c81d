package testbed

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/image/font/basicfont"

	"github.com/spaghettifunk/anima-scene/engine/config"
	"github.com/spaghettifunk/anima-scene/engine/core"
	"github.com/spaghettifunk/anima-scene/engine/math"
	"github.com/spaghettifunk/anima-scene/engine/scene"
	"github.com/spaghettifunk/anima-scene/engine/systems"
	"github.com/spaghettifunk/anima-scene/engine/text"
)

const (
	overlayFontName = "overlay"
	worldCameraName = "world"
	pivotCount      = 2
	logEveryFrames  = 60
)

// mutation is the input of one mutator job.
type mutation struct {
	worker int
	frame  uint64
	time   float32
}

type meshState struct {
	handle *scene.Handle
	pivot  int
	spin   math.Vec3
	speed  float32
}

// TestGame spawns a small scene and drives it from several goroutines while
// the frame loop applies the mutations and walks the graph.
type TestGame struct {
	Config *config.Config

	shared        *scene.SharedHub
	scene         *scene.Scene
	systemManager *systems.SystemManager
	clock         *core.Clock
	metrics       *core.Metrics

	camera   *scene.Handle
	lights   []*scene.Handle
	pivots   []*scene.Handle
	skeleton *scene.Handle
	bones    []*scene.Handle
	overlay  *scene.Handle
	meshes   []*meshState

	// guards meshes[i].pivot across mutator jobs
	mutex     sync.Mutex
	frame     uint64
	visible   int
	isRunning atomic.Bool
}

func NewTestGame(cfg *config.Config) (*TestGame, error) {
	hub, err := scene.NewHub(&cfg.Hub)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	shared := scene.NewSharedHub(hub)

	smConfig := &systems.SystemManagerConfig{
		Workers:      cfg.Testbed.Workers,
		JobQueueSize: cfg.Testbed.Workers * 2,
		Camera:       systems.CameraSystemConfig{MaxCameraCount: 4},
		Font:         systems.FontSystemConfig{MaxFontCount: 4},
	}
	if cfg.Testbed.Font != "" {
		smConfig.Font.BitmapFontConfigs = []*systems.BitmapFontConfig{
			{Name: overlayFontName, ResourcePath: cfg.Testbed.Font},
		}
	}
	sm, err := systems.NewSystemManager(smConfig, shared)
	if err != nil {
		_ = hub.Shutdown()
		return nil, err
	}

	return &TestGame{
		Config:        cfg,
		shared:        shared,
		systemManager: sm,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
	}, nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, g, g.onEvent)
	core.EventRegister(core.EVENT_CODE_STRUCTURE_CONFLICT, g, g.onEvent)

	g.shared.Frame(func(hub *scene.Hub) {
		g.scene = scene.NewScene(hub)
	})
	g.scene.SetBackground(scene.COLOR_BLACK)

	camera, err := g.systemManager.CameraSystem().Acquire(worldCameraName)
	if err != nil {
		return err
	}
	camera.LookAt(math.NewVec3(0, 12, 30), math.NewVec3Zero(), math.NewVec3Up())
	g.scene.Add(camera)
	g.camera = camera

	sun := g.shared.Spawn(scene.NewDirectionalLight(scene.COLOR_WHITE, 0.8))
	sun.LookAt(math.NewVec3(10, 20, 10), math.NewVec3Zero(), math.NewVec3Up())
	sun.SetShadow(scene.NewShadowMap(1024, 1024), scene.Orthographic{ExtentY: 20, Near: 0.1, Far: 100})
	ambient := g.shared.Spawn(scene.NewHemisphereLight(scene.COLOR_WHITE, scene.COLOR_BLUE, 0.3))
	g.scene.Add(sun)
	g.scene.Add(ambient)
	g.lights = []*scene.Handle{sun, ambient}

	for i := 0; i < pivotCount; i++ {
		pivot := g.shared.Spawn(scene.NewGroup())
		pivot.SetName(fmt.Sprintf("pivot-%d", i))
		pivot.SetPosition(math.NewVec3(float32(i*10-5), 0, 0))
		g.scene.Add(pivot)
		g.pivots = append(g.pivots, pivot)
	}

	g.spawnSkeleton(4)

	r := rand.New(rand.NewSource(g.Config.Testbed.Seed))
	materials := []scene.Material{
		scene.LambertMaterial{Color: scene.COLOR_RED},
		scene.PhongMaterial{Color: scene.COLOR_GREEN, Glossiness: 16},
		scene.WireframeMaterial{Color: scene.COLOR_YELLOW},
	}
	for i := 0; i < g.Config.Testbed.Nodes; i++ {
		var skeleton *scene.Handle
		if i == 0 {
			skeleton = g.skeleton
		}
		var mesh *scene.Handle
		g.shared.Frame(func(hub *scene.Hub) {
			mesh = hub.SpawnVisual(materials[i%len(materials)], scene.NewGpuData(2), skeleton)
		})
		mesh.SetName(fmt.Sprintf("mesh-%d", i))
		mesh.SetPosition(math.NewVec3(r.Float32()*8-4, r.Float32()*8-4, r.Float32()*8-4))
		mesh.SetScale(0.5 + r.Float32())
		pivot := i % pivotCount
		g.pivots[pivot].Add(mesh)
		g.meshes = append(g.meshes, &meshState{
			handle: mesh,
			pivot:  pivot,
			spin:   math.NewVec3(r.Float32(), r.Float32(), r.Float32()).Normalized(),
			speed:  math.Lerp(0.5, 2.5, r.Float32()),
		})
	}

	if err := g.spawnOverlay(); err != nil {
		return err
	}

	g.shared.Frame(func(hub *scene.Hub) {
		hub.ProcessMessages()
	})
	core.LogInfo("Scene ready with %d nodes", g.shared.Stats().Live)
	return nil
}

func (g *TestGame) spawnSkeleton(bones int) {
	g.skeleton = g.shared.Spawn(scene.NewSkeleton(bones))
	g.skeleton.SetName("skeleton")
	g.scene.Add(g.skeleton)
	for i := 0; i < bones; i++ {
		bone := g.shared.Spawn(scene.NewBone(i, math.NewMat4Identity()))
		bone.SetPosition(math.NewVec3(0, float32(i), 0))
		g.scene.Add(bone)
		g.bones = append(g.bones, bone)
	}
}

// spawnOverlay adds the statistics text, using the configured bitmap font
// when there is one.
func (g *TestGame) spawnOverlay() error {
	fonts := g.systemManager.FontSystem()
	if g.Config.Testbed.Font == "" {
		if err := fonts.Register(overlayFontName, text.NewFaceFont("basic", basicfont.Face7x13)); err != nil {
			return err
		}
	}
	f, err := fonts.Acquire(overlayFontName)
	if err != nil {
		return err
	}
	overlay := g.shared.Spawn(scene.NewUiText(f, ""))
	overlay.SetTextPosition(math.NewVec2(20, 20))
	overlay.SetTextSize(math.NewVec2(400, 100))
	overlay.SetTextLayout(text.LAYOUT_LEFT)
	overlay.SetTextColor(scene.COLOR_WHITE)
	g.scene.Add(overlay)
	g.overlay = overlay
	return nil
}

func (g *TestGame) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		g.isRunning.Store(false)
		return true
	case core.EVENT_CODE_STRUCTURE_CONFLICT:
		core.LogDebug("node %d:%d moved away from %d:%d", data.Data.U32[0], data.Data.U32[1], data.Data.U32[2], data.Data.U32[3])
	}
	return false
}

// SetStrictKinds is applied on config reload.
func (g *TestGame) SetStrictKinds(strict bool) {
	g.shared.Frame(func(hub *scene.Hub) {
		hub.SetStrictKinds(strict)
	})
}

// mutate runs on a worker. Each worker owns every n-th mesh.
func (g *TestGame) mutate(params interface{}) error {
	m, ok := params.(mutation)
	if !ok {
		return fmt.Errorf("unexpected mutator input %T", params)
	}
	workers := g.systemManager.JobSystem().Workers()
	for i := m.worker; i < len(g.meshes); i += workers {
		mesh := g.meshes[i]
		rotation := math.NewQuatFromAxisAngle(mesh.spin, m.time*mesh.speed, true)
		mesh.handle.SetOrientation(rotation)
		mesh.handle.SetWeights([]float32{math.Fract(m.time), math.Clamp(m.time/10, 0, 1)})

		// every few seconds a mesh hops to the other pivot and blinks
		if (m.frame+uint64(i))%180 == 0 {
			g.mutex.Lock()
			next := (mesh.pivot + 1) % pivotCount
			mesh.pivot = next
			g.mutex.Unlock()
			g.pivots[next].Add(mesh.handle)
		}
		mesh.handle.SetVisible((m.frame+uint64(i))%240 >= 30)
	}
	return nil
}

// Run drives frames until the configured count is reached or an
// application quit event arrives.
func (g *TestGame) Run() error {
	g.isRunning.Store(true)
	g.clock.Start()
	g.clock.Update()
	lastTime := g.clock.Elapsed()

	var targetFrameSeconds float64
	if g.Config.Testbed.FrameRate > 0 {
		targetFrameSeconds = 1.0 / float64(g.Config.Testbed.FrameRate)
	}

	js := g.systemManager.JobSystem()
	for g.isRunning.Load() {
		g.clock.Update()
		currentTime := g.clock.Elapsed()
		delta := currentTime - lastTime
		frameStart := time.Now()

		for w := 0; w < js.Workers(); w++ {
			err := js.Submit(systems.JobTask{
				InputParams: mutation{worker: w, frame: g.frame, time: float32(currentTime)},
				OnStart:     g.mutate,
				OnFailure: func(params interface{}, err error) {
					core.LogError("mutator failed: %s", err)
				},
			})
			if err != nil {
				return err
			}
		}

		g.shared.Frame(func(hub *scene.Hub) {
			hub.ProcessMessages()
			g.visible = 0
			for n := range g.scene.Walk(hub).Seq() {
				if n.Node.Kind() == scene.KIND_VISUAL {
					g.visible++
				}
			}
		})
		js.Wait()

		frameElapsed := time.Since(frameStart).Seconds()
		g.metrics.Update(frameElapsed)
		g.overlay.SetText(fmt.Sprintf("fps %.1f\nframe %.3fms\nvisible %d", g.metrics.FPS(), g.metrics.FrameTime(), g.visible))

		if g.frame%logEveryFrames == 0 {
			stats := g.shared.Stats()
			core.LogInfo("frame %d dt=%.4f visible=%d live=%d applied=%d conflicts=%d reclaimed=%d",
				g.frame, delta, g.visible, stats.Live, stats.Applied, stats.Conflicts, stats.Reclaimed)
		}

		g.frame++
		lastTime = currentTime
		if g.Config.Testbed.Frames > 0 && g.frame >= uint64(g.Config.Testbed.Frames) {
			g.isRunning.Store(false)
		}

		if remaining := targetFrameSeconds - frameElapsed; remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}
	}
	g.clock.Stop()
	return nil
}

// Frames returns the number of frames run so far.
func (g *TestGame) Frames() uint64 {
	return g.frame
}

// Visible returns the number of visible meshes of the last frame.
func (g *TestGame) Visible() int {
	return g.visible
}

func (g *TestGame) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, g)
	core.EventUnregister(core.EVENT_CODE_STRUCTURE_CONFLICT, g)

	for _, m := range g.meshes {
		m.handle.Release()
	}
	for _, b := range g.bones {
		b.Release()
	}
	for _, l := range g.lights {
		l.Release()
	}
	for _, p := range g.pivots {
		p.Release()
	}
	if g.skeleton != nil {
		g.skeleton.Release()
	}
	if g.overlay != nil {
		g.overlay.Release()
		g.systemManager.FontSystem().Release(overlayFontName)
	}
	if g.camera != nil {
		g.camera.Release()
		g.systemManager.CameraSystem().Release(worldCameraName)
	}
	if g.scene != nil {
		g.scene.Release()
	}
	if err := g.systemManager.Shutdown(); err != nil {
		return err
	}
	g.shared.Frame(func(hub *scene.Hub) {
		hub.ProcessMessages()
		core.LogInfo("%d nodes left after shutdown", hub.Len())
	})
	return g.shared.Shutdown()
}
