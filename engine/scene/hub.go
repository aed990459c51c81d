package scene

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-scene/engine/containers"
	"github.com/spaghettifunk/anima-scene/engine/core"
	"github.com/spaghettifunk/anima-scene/engine/math"
)

var (
	ErrInvalidHubConfig = errors.New("invalid hub configuration")
	ErrHubShutdown      = errors.New("hub already shut down")
	ErrKindMismatch     = errors.New("operation does not match node kind")
)

type HubConfig struct {
	// StrictKinds makes an operation sent to a node of the wrong kind
	// panic instead of being logged and skipped.
	StrictKinds bool `toml:"strict_kinds"`
	// InitialCapacity is the number of nodes allocated up front.
	InitialCapacity int `toml:"initial_capacity"`
	// MailboxCapacity is the number of messages queued before the mailbox
	// has to grow.
	MailboxCapacity int `toml:"mailbox_capacity"`
}

func DefaultHubConfig() HubConfig {
	return HubConfig{
		StrictKinds:     false,
		InitialCapacity: 256,
		MailboxCapacity: 1024,
	}
}

func (c *HubConfig) Validate() error {
	if c.InitialCapacity < 0 {
		return fmt.Errorf("%w: initial_capacity must not be negative, got %d", ErrInvalidHubConfig, c.InitialCapacity)
	}
	if c.MailboxCapacity < 0 {
		return fmt.Errorf("%w: mailbox_capacity must not be negative, got %d", ErrInvalidHubConfig, c.MailboxCapacity)
	}
	return nil
}

// Stats counts what the hub did since it was created.
type Stats struct {
	Applied         uint64
	Stale           uint64
	Mismatched      uint64
	Conflicts       uint64
	MissingChildren uint64
	Refused         uint64
	Spawned         uint64
	Reclaimed       uint64
	Live            int
}

// Hub owns every node of a scene graph. Handles send it messages; the
// goroutine that owns the hub applies them with ProcessMessages and then
// reads the graph with Walk. Except for the handles, nothing reachable from
// a Hub is safe for concurrent use; see SharedHub.
type Hub struct {
	ID uuid.UUID

	config   HubConfig
	nodes    *containers.Arena[Node]
	mailbox  *mailbox
	logger   *log.Logger
	stats    Stats
	batch    []message
	shutdown bool
}

// NewHub creates a hub. A nil config uses DefaultHubConfig.
func NewHub(config *HubConfig) (*Hub, error) {
	cfg := DefaultHubConfig()
	if config != nil {
		cfg = *config
	}
	if err := cfg.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	id := uuid.New()
	h := &Hub{
		ID:      id,
		config:  cfg,
		nodes:   containers.NewArena[Node](cfg.InitialCapacity),
		mailbox: newMailbox(cfg.MailboxCapacity),
		logger:  core.Logger("Hub 🌳 ", "hub", id.String()[:8]),
	}
	h.logger.Debug("hub created", "strict", cfg.StrictKinds, "capacity", cfg.InitialCapacity)
	return h, nil
}

// Shutdown closes the mailbox and drops the messages still in it. Handles
// can still be used afterwards but their messages are discarded.
func (h *Hub) Shutdown() error {
	if h.shutdown {
		return ErrHubShutdown
	}
	h.shutdown = true
	pending := h.mailbox.close()
	for _, msg := range pending {
		releaseOperation(msg.op)
	}
	reclaimed := h.nodes.SyncPending(h.reclaim)
	h.logger.Info("hub shut down", "dropped", len(pending), "reclaimed", reclaimed, "live", h.nodes.Len())
	core.ForgetLogger(h.logger)
	return nil
}

func (h *Hub) Config() HubConfig {
	return h.config
}

// SetStrictKinds switches between panicking and logging on kind mismatches.
func (h *Hub) SetStrictKinds(strict bool) {
	h.config.StrictKinds = strict
}

// Spawn stores a copy of sub in a new visible node with an identity
// transform and returns the only handle to it.
func (h *Hub) Spawn(sub SubNode) *Handle {
	if sub == nil {
		panic("anima: spawn of nil sub node")
	}
	ptr, ref := h.nodes.Create(newNode(sub.clone()))
	h.stats.Spawned++
	h.logger.Debug("node spawned", "node", ptr, "kind", sub.Kind())
	h.fire(core.EVENT_CODE_NODE_SPAWNED, ptr, sub.Kind().String())
	return newHandle(ptr, ref, h.mailbox)
}

func (h *Hub) SpawnGroup() *Handle {
	return h.Spawn(NewGroup())
}

func (h *Hub) SpawnCamera(projection Projection) *Handle {
	return h.Spawn(&Camera{Projection: projection})
}

// SpawnVisual creates a mesh node, bound to skeleton when it is not nil.
func (h *Hub) SpawnVisual(material Material, gpu GpuData, skeleton *Handle) *Handle {
	v := h.Spawn(NewVisual(material, gpu))
	if skeleton != nil {
		v.SetSkeleton(skeleton)
	}
	return v
}

func (h *Hub) SpawnLight(light *Light) *Handle {
	return h.Spawn(light)
}

func (h *Hub) SpawnBone(index int, inverseBindMatrix math.Mat4) *Handle {
	return h.Spawn(NewBone(index, inverseBindMatrix))
}

func (h *Hub) SpawnSkeleton(skeleton *Skeleton) *Handle {
	return h.Spawn(skeleton)
}

func (h *Hub) SpawnText(t *UiText) *Handle {
	return h.Spawn(t)
}

// Upgrade returns a new handle to the node p points to, or false if the
// node is gone.
func (h *Hub) Upgrade(p Pointer) (*Handle, bool) {
	ref, ok := h.nodes.Ref(p)
	if !ok {
		return nil, false
	}
	h.nodes.Retain(p)
	return newHandle(p, ref, h.mailbox), true
}

// Node returns the node p points to. The result must not be kept across
// calls that spawn nodes.
func (h *Hub) Node(p Pointer) (*Node, bool) {
	return h.nodes.Get(p)
}

// MustNode is like Node but panics if the node is gone.
func (h *Hub) MustNode(p Pointer) *Node {
	return h.nodes.MustGet(p)
}

// Children lists the children of a group, first child first.
func (h *Hub) Children(p Pointer) []Pointer {
	n, ok := h.nodes.Get(p)
	if !ok {
		return nil
	}
	var out []Pointer
	for c := n.firstChild; !c.IsNil(); c = h.nodes.MustGet(c).nextSibling {
		out = append(out, c)
	}
	return out
}

// Pending returns the number of messages waiting to be processed.
func (h *Hub) Pending() int {
	return h.mailbox.len()
}

func (h *Hub) Len() int {
	return h.nodes.Len()
}

func (h *Hub) Stats() Stats {
	s := h.stats
	s.Live = h.nodes.Len()
	return s
}

func (h *Hub) Logger() *log.Logger {
	return h.logger
}

type eventArgs struct {
	code    core.SystemEventCode
	target  Pointer
	other   Pointer
	strings []string
}

func (h *Hub) fire(code core.SystemEventCode, target Pointer, strings ...string) {
	h.fireEvent(eventArgs{code: code, target: target, strings: strings})
}

func (h *Hub) fireEvent(args eventArgs) {
	var ctx core.EventContext
	ctx.Data.U32[0] = args.target.Index()
	ctx.Data.U32[1] = args.target.Generation()
	ctx.Data.U32[2] = args.other.Index()
	ctx.Data.U32[3] = args.other.Generation()
	ctx.Data.C[0] = h.ID.String()
	copy(ctx.Data.C[1:], args.strings)
	core.EventFire(args.code, h, ctx)
}
