package scene

import (
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-scene/engine/core"
	"github.com/spaghettifunk/anima-scene/engine/math"
)

const tolerance = 1e-5

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	core.EventInitialize()
	code := m.Run()
	_ = core.EventShutdown()
	os.Exit(code)
}

func newTestHub(t *testing.T, strict bool) *Hub {
	t.Helper()
	h, err := NewHub(&HubConfig{StrictKinds: strict, InitialCapacity: 8, MailboxCapacity: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Shutdown() })
	return h
}

func spawnMesh(h *Hub, blendShapes int) *Handle {
	return h.SpawnVisual(BasicMaterial{Color: COLOR_WHITE}, NewGpuData(blendShapes), nil)
}

func TestNewHubConfig(t *testing.T) {
	_, err := NewHub(&HubConfig{InitialCapacity: -1})
	assert.ErrorIs(t, err, ErrInvalidHubConfig)

	h, err := NewHub(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultHubConfig(), h.Config())
	assert.NoError(t, h.Shutdown())
	assert.ErrorIs(t, h.Shutdown(), ErrHubShutdown)
}

func TestSpawnDefaults(t *testing.T) {
	h := newTestHub(t, true)
	light := NewPointLight(COLOR_RED, 2)
	l := h.SpawnLight(light)

	n := h.MustNode(l.Pointer())
	assert.True(t, n.Visible())
	assert.True(t, n.Transform().Compare(math.NewTransform(), 0))
	assert.Equal(t, KIND_LIGHT, n.Kind())
	assert.True(t, n.FirstChild().IsNil())

	// the hub keeps its own copy of the payload
	light.Intensity = 99
	assert.Equal(t, float32(2), n.SubNode().(*Light).Intensity)
	assert.Equal(t, uint64(1), h.Stats().Spawned)
}

func TestLastWriteWins(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	g.SetVisible(true)
	g.SetVisible(false)
	h.ProcessMessages()
	assert.False(t, h.MustNode(g.Pointer()).Visible())
	assert.Equal(t, uint64(2), h.Stats().Applied)
}

func TestSetTransformOptionalFields(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	rot := math.NewQuatFromAxisAngle(math.NewVec3Up(), math.K_PI/2, true)
	g.SetTransform(math.NewVec3(1, 2, 3), rot, 4)
	g.SetPosition(math.NewVec3(5, 6, 7))
	h.ProcessMessages()

	tr := h.MustNode(g.Pointer()).Transform()
	assert.True(t, tr.Position.Compare(math.NewVec3(5, 6, 7), tolerance))
	assert.True(t, tr.Rotation.Compare(rot, tolerance))
	assert.Equal(t, float32(4), tr.Scale)

	g.SetScale(0.5)
	g.SetName("pivot")
	h.ProcessMessages()
	tr = h.MustNode(g.Pointer()).Transform()
	assert.True(t, tr.Position.Compare(math.NewVec3(5, 6, 7), tolerance))
	assert.Equal(t, float32(0.5), tr.Scale)
	assert.Equal(t, "pivot", h.MustNode(g.Pointer()).Name())
}

func TestLookAt(t *testing.T) {
	h := newTestHub(t, true)
	cam := h.SpawnCamera(Perspective{FovY: 60, Near: 0.1, Far: 100})
	cam.LookAt(math.NewVec3(0, 0, 5), math.NewVec3(5, 0, 5), math.NewVec3Up())
	h.ProcessMessages()

	tr := h.MustNode(cam.Pointer()).Transform()
	assert.True(t, tr.Position.Compare(math.NewVec3(0, 0, 5), tolerance))
	forward := tr.Rotation.Rotate(math.NewVec3Forward())
	assert.True(t, forward.Compare(math.NewVec3(1, 0, 0), tolerance))
}

func TestAddThenRemoveRestoresFirstChild(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	existing := h.SpawnGroup()
	g.Add(existing)
	h.ProcessMessages()
	before := h.MustNode(g.Pointer()).FirstChild()
	require.Equal(t, existing.Pointer(), before)

	c := spawnMesh(h, 0)
	g.Add(c)
	g.Remove(c)
	h.ProcessMessages()

	assert.Equal(t, before, h.MustNode(g.Pointer()).FirstChild())
	assert.True(t, h.MustNode(c.Pointer()).Parent().IsNil())
	assert.True(t, h.MustNode(c.Pointer()).NextSibling().IsNil())
}

func TestChildrenAreHeadInserted(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	a, b, c := spawnMesh(h, 0), spawnMesh(h, 0), spawnMesh(h, 0)
	g.Add(a)
	g.Add(b)
	g.Add(c)
	h.ProcessMessages()
	assert.Equal(t, []Pointer{c.Pointer(), b.Pointer(), a.Pointer()}, h.Children(g.Pointer()))

	// middle and tail removal splice the chain
	g.Remove(b)
	h.ProcessMessages()
	assert.Equal(t, []Pointer{c.Pointer(), a.Pointer()}, h.Children(g.Pointer()))
	g.Remove(a)
	h.ProcessMessages()
	assert.Equal(t, []Pointer{c.Pointer()}, h.Children(g.Pointer()))
}

func TestDroppedHandlesReclaimNode(t *testing.T) {
	h := newTestHub(t, true)
	n := spawnMesh(h, 0)
	clone := n.Clone()
	ptr := n.Pointer()
	assert.True(t, n.Equal(clone))

	n.Release()
	h.ProcessMessages()
	_, ok := h.Node(ptr)
	require.True(t, ok, "a clone still holds the node")

	clone.Release()
	clone.Release()
	h.ProcessMessages()
	_, ok = h.Node(ptr)
	assert.False(t, ok)
	assert.Panics(t, func() { h.MustNode(ptr) })
	_, ok = h.Upgrade(ptr)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), h.Stats().Reclaimed)

	// the slot is reused under a new generation
	again := h.SpawnGroup()
	assert.Equal(t, ptr.Index(), again.Pointer().Index())
	assert.NotEqual(t, ptr, again.Pointer())
}

func TestLinkedChildOutlivesItsHandle(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	c := spawnMesh(h, 0)
	ptr := c.Pointer()
	g.Add(c)
	c.Release()
	h.ProcessMessages()
	_, ok := h.Node(ptr)
	require.True(t, ok)

	again, ok := h.Upgrade(ptr)
	require.True(t, ok)
	g.Remove(again)
	again.Release()
	h.ProcessMessages()
	_, ok = h.Node(ptr)
	assert.False(t, ok)
}

func TestReclaimCascadesThroughGroups(t *testing.T) {
	h := newTestHub(t, true)
	root := h.SpawnGroup()
	mid := h.SpawnGroup()
	leaf1, leaf2 := spawnMesh(h, 0), spawnMesh(h, 0)
	keeper := spawnMesh(h, 0)
	root.Add(mid)
	mid.Add(leaf1)
	mid.Add(keeper)
	mid.Add(leaf2)
	h.ProcessMessages()
	require.Equal(t, 5, h.Len())

	for _, handle := range []*Handle{mid, leaf1, leaf2, root} {
		handle.Release()
	}
	h.ProcessMessages()

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, uint64(4), h.Stats().Reclaimed)
	n := h.MustNode(keeper.Pointer())
	assert.True(t, n.Parent().IsNil())
	assert.True(t, n.NextSibling().IsNil())
}

func TestStaleMessagesAreDropped(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	stale := g.Pointer()
	g.Release()
	h.ProcessMessages()

	h.mailbox.send(message{target: stale, op: opSetVisible{visible: false}})
	h.mailbox.send(message{target: stale, op: opSetName{value: "gone"}})
	assert.Equal(t, 2, h.Pending())
	assert.NotPanics(t, h.ProcessMessages)

	s := h.Stats()
	assert.Equal(t, uint64(2), s.Stale)
	assert.Equal(t, uint64(0), s.Applied)
	assert.Equal(t, 0, h.Pending())
}

func TestStaleAddChildReleasesChild(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	stale := g.Pointer()
	g.Release()
	h.ProcessMessages()

	c := spawnMesh(h, 0)
	ptr, ref := c.Pointer(), c.ref
	ref.Retain()
	h.mailbox.send(message{target: stale, op: opAddChild{child: ptr, ref: ref}})
	c.Release()
	h.ProcessMessages()

	_, ok := h.Node(ptr)
	assert.False(t, ok)
}

func TestKindMismatchLenient(t *testing.T) {
	h := newTestHub(t, false)
	g := h.SpawnGroup()
	mesh := spawnMesh(h, 0)
	child := spawnMesh(h, 0)

	g.SetProjection(Perspective{FovY: 45})
	g.SetMaterial(PhongMaterial{})
	g.SetLightColor(COLOR_RED)
	g.SetTextOpacity(0.5)
	mesh.Add(child)
	mesh.SetTexelRange([2]int16{0, 0}, [2]uint16{1, 1})
	assert.NotPanics(t, h.ProcessMessages)

	s := h.Stats()
	assert.Equal(t, uint64(6), s.Mismatched)
	assert.Equal(t, uint64(0), s.Applied)
	assert.True(t, h.MustNode(mesh.Pointer()).FirstChild().IsNil())
	assert.Equal(t, BasicMaterial{Color: COLOR_WHITE}, h.MustNode(mesh.Pointer()).SubNode().(*Visual).Material)

	// the rejected AddChild gave its reference back
	ptr := child.Pointer()
	child.Release()
	h.ProcessMessages()
	_, ok := h.Node(ptr)
	assert.False(t, ok)
}

func TestKindMismatchStrict(t *testing.T) {
	h := newTestHub(t, true)
	light := h.SpawnLight(NewAmbientLight(COLOR_WHITE, 1))
	light.SetProjection(Orthographic{ExtentY: 1})
	assert.PanicsWithValue(t,
		"anima: operation does not match node kind: SetProjection sent to light node "+light.Pointer().String(),
		h.ProcessMessages)
	assert.Equal(t, uint64(1), h.Stats().Mismatched)
}

func TestRelocationUnlinksFromOldParent(t *testing.T) {
	h := newTestHub(t, true)
	g1, g2 := h.SpawnGroup(), h.SpawnGroup()
	a, c := spawnMesh(h, 0), spawnMesh(h, 0)
	g1.Add(a)
	g1.Add(c)
	h.ProcessMessages()

	var conflicts int
	listener := &struct{}{}
	require.True(t, core.EventRegister(core.EVENT_CODE_STRUCTURE_CONFLICT, listener,
		func(code core.SystemEventCode, sender interface{}, inst interface{}, data core.EventContext) bool {
			conflicts++
			assert.Equal(t, c.Pointer().Index(), data.Data.U32[0])
			assert.Equal(t, g1.Pointer().Index(), data.Data.U32[2])
			return false
		}))
	defer core.EventUnregister(core.EVENT_CODE_STRUCTURE_CONFLICT, listener)

	g2.Add(c)
	h.ProcessMessages()

	assert.Equal(t, []Pointer{a.Pointer()}, h.Children(g1.Pointer()))
	assert.Equal(t, []Pointer{c.Pointer()}, h.Children(g2.Pointer()))
	assert.Equal(t, g2.Pointer(), h.MustNode(c.Pointer()).Parent())
	assert.Equal(t, uint64(1), h.Stats().Conflicts)
	assert.Equal(t, 1, conflicts)

	// each node shows up exactly once
	seen := map[Pointer]int{}
	for _, root := range []Pointer{g1.Pointer(), g2.Pointer()} {
		for wn := range h.WalkAll(root).Seq() {
			seen[wn.Pointer]++
		}
	}
	for p, n := range seen {
		assert.Equal(t, 1, n, "node %v", p)
	}
}

func TestReaddingToSameGroupMovesToHead(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	a, b := spawnMesh(h, 0), spawnMesh(h, 0)
	g.Add(a)
	g.Add(b)
	g.Add(a)
	h.ProcessMessages()
	assert.Equal(t, []Pointer{a.Pointer(), b.Pointer()}, h.Children(g.Pointer()))
}

func TestCyclesAreRefused(t *testing.T) {
	h := newTestHub(t, true)
	g1, g2, g3 := h.SpawnGroup(), h.SpawnGroup(), h.SpawnGroup()
	g1.Add(g2)
	g2.Add(g3)
	h.ProcessMessages()

	g3.Add(g1)
	g2.Add(g2)
	h.ProcessMessages()

	assert.Equal(t, uint64(2), h.Stats().Refused)
	assert.True(t, h.MustNode(g1.Pointer()).Parent().IsNil())
	assert.True(t, h.MustNode(g3.Pointer()).FirstChild().IsNil())
	assert.Len(t, h.WalkAll(g1.Pointer()).Collect(), 3)
}

func TestRemoveMissingChild(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	a, stranger := spawnMesh(h, 0), spawnMesh(h, 0)
	g.Add(a)
	g.Remove(stranger)
	h.ProcessMessages()

	assert.Equal(t, uint64(1), h.Stats().MissingChildren)
	assert.Equal(t, []Pointer{a.Pointer()}, h.Children(g.Pointer()))
}

func TestSetWeights(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	v1, v2 := spawnMesh(h, 2), spawnMesh(h, 3)
	light := h.SpawnLight(NewDirectionalLight(COLOR_WHITE, 1))
	inner := h.SpawnGroup()
	nested := spawnMesh(h, 2)
	g.Add(v1)
	g.Add(light)
	g.Add(v2)
	g.Add(inner)
	inner.Add(nested)
	h.ProcessMessages()

	g.SetWeights([]float32{0.5})
	light.SetWeights([]float32{1})
	h.ProcessMessages()

	weights := func(handle *Handle) []float32 {
		return h.MustNode(handle.Pointer()).SubNode().(*Visual).Weights()
	}
	assert.Equal(t, []float32{0.5, 0}, weights(v1))
	assert.Equal(t, []float32{0.5, 0, 0}, weights(v2))
	assert.Equal(t, []float32{0, 0}, weights(nested))

	v2.SetWeights([]float32{1, 2, 3, 4})
	h.ProcessMessages()
	assert.Equal(t, []float32{1, 2, 3}, weights(v2))
}

func TestMaterialsAndTexelRange(t *testing.T) {
	h := newTestHub(t, false)
	sprite := h.SpawnVisual(SpriteMaterial{Map: NewTexture(64, 32)}, NewGpuData(0), nil)
	sprite.SetTexelRange([2]int16{8, 4}, [2]uint16{16, 8})
	h.ProcessMessages()

	m := h.MustNode(sprite.Pointer()).SubNode().(*Visual).Material.(SpriteMaterial)
	uv := m.Map.UVRange()
	assert.InDeltaSlice(t, []float32{0.125, 0.625, 0.375, 0.875}, uv[:], tolerance)

	sprite.SetMaterial(WireframeMaterial{Color: COLOR_GREEN})
	sprite.SetTexelRange([2]int16{0, 0}, [2]uint16{1, 1})
	h.ProcessMessages()
	assert.Equal(t, WireframeMaterial{Color: COLOR_GREEN}, h.MustNode(sprite.Pointer()).SubNode().(*Visual).Material)
	assert.Equal(t, uint64(1), h.Stats().Mismatched)
}

func TestSkeletonBinding(t *testing.T) {
	h := newTestHub(t, true)
	skeleton := h.SpawnSkeleton(NewSkeleton(2))
	bone := h.SpawnBone(0, math.NewMat4Identity())
	mesh := h.SpawnVisual(PhongMaterial{Glossiness: 8}, NewGpuData(0), skeleton)
	skelPtr := skeleton.Pointer()
	skeleton.Release()
	h.ProcessMessages()

	assert.Equal(t, skelPtr, h.MustNode(mesh.Pointer()).SubNode().(*Visual).Skeleton())
	_, ok := h.Node(skelPtr)
	require.True(t, ok, "the mesh keeps its skeleton alive")

	h.SetStrictKinds(false)
	mesh.SetSkeleton(bone)
	h.ProcessMessages()
	assert.Equal(t, uint64(1), h.Stats().Mismatched)
	assert.Equal(t, skelPtr, h.MustNode(mesh.Pointer()).SubNode().(*Visual).Skeleton())

	mesh.Release()
	h.ProcessMessages()
	_, ok = h.Node(skelPtr)
	assert.False(t, ok)
}

func TestLightOperations(t *testing.T) {
	h := newTestHub(t, true)
	l := h.SpawnLight(NewHemisphereLight(COLOR_BLUE, COLOR_GREEN, 1))
	l.SetLightColor(COLOR_YELLOW)
	l.SetLightIntensity(0.25)
	shadowMap := NewShadowMap(1024, 1024)
	proj := Orthographic{ExtentY: 10, Near: -10, Far: 10}
	l.SetShadow(shadowMap, proj)
	h.ProcessMessages()

	light := h.MustNode(l.Pointer()).SubNode().(*Light)
	assert.Equal(t, COLOR_YELLOW, light.Color)
	assert.Equal(t, COLOR_GREEN, light.Ground)
	assert.Equal(t, float32(0.25), light.Intensity)
	require.NotNil(t, light.Shadow)
	assert.Equal(t, shadowMap, light.Shadow.Map)
	assert.Equal(t, proj, light.Shadow.Projection)
	assert.Equal(t, "hemisphere", light.LightKind.String())
}

func TestCameraProjection(t *testing.T) {
	h := newTestHub(t, true)
	cam := h.SpawnCamera(Perspective{FovY: 90, Near: 1, Far: 0})
	ortho := Orthographic{ExtentY: 1, Near: -1, Far: 1}
	cam.SetProjection(ortho)
	h.ProcessMessages()

	c := h.MustNode(cam.Pointer()).SubNode().(*Camera)
	assert.Equal(t, ortho, c.Projection)
	m := c.Projection.Matrix(2)
	assert.InDelta(t, 0.5, m.Data[0], tolerance)
	assert.InDelta(t, 1, m.Data[5], tolerance)
	assert.True(t, Perspective{FovY: 90, Near: 1}.Infinite())
}

func TestHandleAfterRelease(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	other := h.SpawnGroup()
	g.Release()
	assert.True(t, g.Released())
	assert.NotPanics(t, g.Release)
	assert.Panics(t, func() { g.SetVisible(false) })
	assert.Panics(t, func() { g.Clone() })
	assert.Panics(t, func() { other.Add(g) })
}

func TestShutdownDropsPending(t *testing.T) {
	h, err := NewHub(nil)
	require.NoError(t, err)
	g, c := h.SpawnGroup(), h.SpawnGroup()
	g.Add(c)
	require.Equal(t, 1, h.Pending())

	require.NoError(t, h.Shutdown())
	assert.Equal(t, 0, h.Pending())
	g.SetVisible(false)
	assert.Equal(t, 0, h.Pending())
	assert.True(t, h.MustNode(g.Pointer()).Visible())
}

func TestConcurrentSendersKeepPerHandleOrder(t *testing.T) {
	h := newTestHub(t, true)
	const senders, writes = 8, 200

	handles := make([]*Handle, senders)
	for i := range handles {
		handles[i] = spawnMesh(h, 0)
	}

	var wg sync.WaitGroup
	for i, handle := range handles {
		wg.Add(1)
		go func(clone *Handle, base int) {
			defer wg.Done()
			defer clone.Release()
			for j := 1; j <= writes; j++ {
				clone.SetPosition(math.NewVec3(float32(base), float32(j), 0))
			}
		}(handle.Clone(), i)
	}
	wg.Wait()
	h.ProcessMessages()

	for i, handle := range handles {
		pos := h.MustNode(handle.Pointer()).Transform().Position
		assert.Equal(t, math.NewVec3(float32(i), writes, 0), pos)
	}
	assert.Equal(t, uint64(senders*writes), h.Stats().Applied)
}

func TestSharedHubFrame(t *testing.T) {
	h := newTestHub(t, true)
	shared := NewSharedHub(h)
	root := shared.Spawn(NewGroup())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			child := shared.Spawn(NewGroup())
			root.Add(child)
			child.Release()
		}()
	}
	wg.Wait()

	var walked int
	shared.Frame(func(hub *Hub) {
		hub.ProcessMessages()
		walked = len(hub.Walk(root.Pointer()).Collect())
	})
	assert.Equal(t, 5, walked)
	assert.Equal(t, 5, shared.Stats().Live)
}

func TestSetNameMessage(t *testing.T) {
	h := newTestHub(t, true)
	g := h.SpawnGroup()
	defer g.Release()

	op := opSetName{value: "pivot"}
	assert.Equal(t, "SetName", op.name())
	h.mailbox.send(message{target: g.Pointer(), op: op})
	h.ProcessMessages()
	assert.Equal(t, "pivot", h.MustNode(g.Pointer()).Name())
	assert.Equal(t, uint64(1), h.Stats().Applied)
}
