package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-scene/engine/core"
	"github.com/spaghettifunk/anima-scene/engine/text"
)

type BitmapFontConfig struct {
	Name         string
	ResourcePath string
}

type SystemFontConfig struct {
	Name         string
	ResourcePath string
	DefaultSize  float64
}

type FontSystemConfig struct {
	BitmapFontConfigs []*BitmapFontConfig
	SystemFontConfigs []*SystemFontConfig
	MaxFontCount      uint8
	// AutoRelease drops a font once its reference count reaches zero.
	AutoRelease bool
}

type fontLookup struct {
	font           text.Font
	referenceCount uint16
}

// FontSystem keeps the fonts used by text nodes, by name.
type FontSystem struct {
	Config *FontSystemConfig

	mutex sync.Mutex
	fonts map[string]*fontLookup
}

func NewFontSystem(config *FontSystemConfig) (*FontSystem, error) {
	if config.MaxFontCount == 0 {
		err := fmt.Errorf("func NewFontSystem - config.MaxFontCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	fs := &FontSystem{
		Config: config,
		fonts:  make(map[string]*fontLookup),
	}
	for _, bc := range config.BitmapFontConfigs {
		f, err := text.LoadBitmapFont(bc.ResourcePath)
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
		if err := fs.Register(bc.Name, f); err != nil {
			return nil, err
		}
	}
	for _, sc := range config.SystemFontConfigs {
		f, err := text.LoadFaceFont(sc.ResourcePath, sc.DefaultSize)
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
		if err := fs.Register(sc.Name, f); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// Register adds an already loaded font under name.
func (fs *FontSystem) Register(name string, font text.Font) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	if _, ok := fs.fonts[name]; ok {
		return fmt.Errorf("font '%s' is already registered", name)
	}
	if len(fs.fonts) >= int(fs.Config.MaxFontCount) {
		return fmt.Errorf("unable to register font '%s', the maximum of %d fonts is reached", name, fs.Config.MaxFontCount)
	}
	fs.fonts[name] = &fontLookup{font: font}
	return nil
}

/**
 * @brief Acquires a font by name. Internal reference counter is incremented.
 */
func (fs *FontSystem) Acquire(name string) (text.Font, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	f, ok := fs.fonts[name]
	if !ok {
		err := fmt.Errorf("font '%s' not found", name)
		core.LogError(err.Error())
		return nil, err
	}
	f.referenceCount++
	return f.font, nil
}

/**
 * @brief Releases a font by name. With AutoRelease set, the font is
 * dropped once nothing holds it.
 */
func (fs *FontSystem) Release(name string) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	f, ok := fs.fonts[name]
	if !ok || f.referenceCount == 0 {
		core.LogWarn("FontSystemRelease failed lookup for '%s'. Nothing was done.", name)
		return
	}
	f.referenceCount--
	if f.referenceCount == 0 && fs.Config.AutoRelease {
		closeFont(f.font)
		delete(fs.fonts, name)
	}
}

func closeFont(f text.Font) {
	if c, ok := f.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			core.LogWarn(err.Error())
		}
	}
}

func (fs *FontSystem) Shutdown() error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()
	for name, f := range fs.fonts {
		closeFont(f.font)
		delete(fs.fonts, name)
	}
	return nil
}
