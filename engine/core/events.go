package core

import (
	"fmt"
	"sync"
)

type EventContext struct {
	Data struct {
		I64 [2]int64
		U64 [2]uint64
		F64 [2]float64

		I32 [4]int32
		U32 [4]uint32
		F32 [4]float32

		C [4]string
	}
}

// Engine internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A node was created.
	/* Context usage:
	 * u32 index = data.U32[0];
	 * u32 generation = data.U32[1];
	 * string hub = data.C[0];
	 * string kind = data.C[1];
	 */
	EVENT_CODE_NODE_SPAWNED SystemEventCode = 0x02

	// A node slot was reclaimed. Same context as EVENT_CODE_NODE_SPAWNED.
	EVENT_CODE_NODE_RECLAIMED SystemEventCode = 0x03

	// A message addressed a node that no longer exists.
	/* Context usage:
	 * u32 index = data.U32[0];
	 * u32 generation = data.U32[1];
	 * string hub = data.C[0];
	 * string operation = data.C[1];
	 */
	EVENT_CODE_MESSAGE_STALE SystemEventCode = 0x04

	// A message did not fit the kind of its target. Same context as
	// EVENT_CODE_MESSAGE_STALE, plus string kind = data.C[2].
	EVENT_CODE_KIND_MISMATCH SystemEventCode = 0x05

	// A child was added while it still had a parent.
	/* Context usage:
	 * u32 child index = data.U32[0];
	 * u32 child generation = data.U32[1];
	 * u32 old parent index = data.U32[2];
	 * u32 old parent generation = data.U32[3];
	 * string hub = data.C[0];
	 */
	EVENT_CODE_STRUCTURE_CONFLICT SystemEventCode = 0x06

	// A child to remove was not in the group.
	/* Context usage:
	 * u32 group index = data.U32[0];
	 * u32 group generation = data.U32[1];
	 * u32 child index = data.U32[2];
	 * u32 child generation = data.U32[3];
	 * string hub = data.C[0];
	 */
	EVENT_CODE_MISSING_CHILD SystemEventCode = 0x07

	// The configuration file changed and was applied.
	/* Context usage:
	 * string path = data.C[0];
	 */
	EVENT_CODE_CONFIG_RELOADED SystemEventCode = 0x08

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

// State structure.
type eventSystemState struct {
	mu sync.RWMutex
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

var eventMu sync.Mutex
var eventState *eventSystemState = nil

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

// EventInitialize sets the event system up. It returns false if it was
// already running.
func EventInitialize() bool {
	eventMu.Lock()
	defer eventMu.Unlock()
	if eventState != nil {
		return false
	}
	eventState = &eventSystemState{}
	return true
}

// EventShutdown drops every registration.
func EventShutdown() error {
	eventMu.Lock()
	defer eventMu.Unlock()
	if eventState == nil {
		return ErrEventsNotInitialized
	}
	eventState = nil
	return nil
}

func currentEvents() *eventSystemState {
	eventMu.Lock()
	defer eventMu.Unlock()
	return eventState
}

func checkCode(code SystemEventCode) error {
	if code < 0 || code >= MAX_MESSAGE_CODES {
		return fmt.Errorf("%w: %d", ErrInvalidEventCode, code)
	}
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listener combos will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener A listener instance. Can be nil.
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	state := currentEvents()
	if state == nil || onEvent == nil {
		return false
	}
	if err := checkCode(code); err != nil {
		LogWarn(err.Error())
		return false
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	for _, e := range state.registered[code].events {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	event := &registeredEvent{
		listener: listener,
		callback: onEvent,
	}
	state.registered[code].events = append(state.registered[code].events, event)
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 * @param code The event code to stop listening for.
 * @param listener The listener instance given at registration.
 * @returns true if the event is successfully unregistered; otherwise false.
 */
func EventUnregister(code SystemEventCode, listener interface{}) bool {
	state := currentEvents()
	if state == nil || checkCode(code) != nil {
		return false
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	events := state.registered[code].events
	for i, e := range events {
		if e.listener == listener {
			state.registered[code].events = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @param code The event code to fire.
 * @param sender The sender. Can be nil.
 * @param context The event data.
 * @returns true if handled, otherwise false.
 */
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	state := currentEvents()
	if state == nil || checkCode(code) != nil {
		return false
	}
	state.mu.RLock()
	events := state.registered[code].events
	state.mu.RUnlock()
	// callbacks run unlocked so they may register or unregister
	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			return true
		}
	}
	return false
}
