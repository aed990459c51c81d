package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"github.com/spaghettifunk/anima-scene/engine/scene"
	"github.com/spaghettifunk/anima-scene/engine/text"
)

func newSharedHub(t *testing.T) (*scene.Hub, *scene.SharedHub) {
	t.Helper()
	h, err := scene.NewHub(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Shutdown() })
	return h, scene.NewSharedHub(h)
}

func TestCameraSystemReferenceCounting(t *testing.T) {
	hub, shared := newSharedHub(t)
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 1}, shared)
	require.NoError(t, err)

	a, err := cs.Acquire("main")
	require.NoError(t, err)
	b, err := cs.Acquire("main")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, 1, cs.Count())

	_, err = cs.Acquire("second")
	assert.Error(t, err)

	hub.ProcessMessages()
	node := hub.MustNode(a.Pointer())
	assert.Equal(t, "main", node.Name())
	assert.Equal(t, scene.KIND_CAMERA, node.Kind())

	ptr := a.Pointer()
	a.Release()
	b.Release()
	cs.Release("main")
	hub.ProcessMessages()
	_, ok := hub.Node(ptr)
	require.True(t, ok, "one acquire is still open")

	cs.Release("main")
	hub.ProcessMessages()
	_, ok = hub.Node(ptr)
	assert.False(t, ok)
	assert.Equal(t, 0, cs.Count())

	def, err := cs.Acquire(DEFAULT_CAMERA_NAME)
	require.NoError(t, err)
	assert.True(t, def.Equal(cs.GetDefault()))
	def.Release()
	require.NoError(t, cs.Shutdown())
}

func TestNewCameraSystemNeedsSlots(t *testing.T) {
	_, shared := newSharedHub(t)
	_, err := NewCameraSystem(&CameraSystemConfig{}, shared)
	assert.Error(t, err)
}

func TestFontSystem(t *testing.T) {
	fs, err := NewFontSystem(&FontSystemConfig{MaxFontCount: 1, AutoRelease: true})
	require.NoError(t, err)

	basic := text.NewFaceFont("basic", basicfont.Face7x13)
	require.NoError(t, fs.Register("ui", basic))
	assert.Error(t, fs.Register("ui", basic))
	assert.Error(t, fs.Register("other", basic))

	f, err := fs.Acquire("ui")
	require.NoError(t, err)
	assert.Equal(t, "basic", f.Name())

	fs.Release("ui")
	_, err = fs.Acquire("ui")
	assert.Error(t, err, "auto release dropped the font")
	require.NoError(t, fs.Shutdown())
}

func TestFontSystemMissingFile(t *testing.T) {
	_, err := NewFontSystem(&FontSystemConfig{
		MaxFontCount:      1,
		BitmapFontConfigs: []*BitmapFontConfig{{Name: "x", ResourcePath: "does/not/exist.fnt"}},
	})
	assert.Error(t, err)
}

func TestSystemManager(t *testing.T) {
	_, shared := newSharedHub(t)
	sm, err := NewSystemManager(&SystemManagerConfig{
		Workers: 2,
		Camera:  CameraSystemConfig{MaxCameraCount: 4},
		Font:    FontSystemConfig{MaxFontCount: 4},
	}, shared)
	require.NoError(t, err)
	assert.Equal(t, 2, sm.JobSystem().Workers())
	assert.NotNil(t, sm.CameraSystem().GetDefault())
	assert.NotNil(t, sm.FontSystem())
	require.NoError(t, sm.Shutdown())

	_, err = NewSystemManager(&SystemManagerConfig{Workers: 0}, shared)
	assert.ErrorIs(t, err, ErrNoWorkers)
}
