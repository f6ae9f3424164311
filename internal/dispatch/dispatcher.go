// Package dispatch routes type-erased commands to the handler registered for
// their concrete type.
package dispatch

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kyson/cmdkit/internal/command"
)

// Dispatcher is a registry of handlers keyed by command type.
// The zero value is not usable; call New.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]invoker
}

// New returns an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{handlers: make(map[reflect.Type]invoker)}
}

// Register binds the command type C to h. When h also implements
// command.UndoableHandler[C] the binding supports Undo, unless it is a
// command.UndoProber reporting false.
func Register[C command.Command](d *Dispatcher, h command.Handler[C]) error {
	if d == nil {
		return fmt.Errorf("%w: dispatcher is nil", command.ErrArgument)
	}
	if h == nil {
		return fmt.Errorf("%w: handler is nil", command.ErrConfiguration)
	}
	key := reflect.TypeFor[C]()
	if key.Kind() == reflect.Interface {
		return fmt.Errorf("%w: cannot register handler for interface type %s", command.ErrConfiguration, key)
	}

	w := &wrapper[C]{inner: h}
	if u, ok := h.(command.UndoableHandler[C]); ok {
		if p, ok := h.(command.UndoProber); !ok || p.SupportsUndo() {
			w.undoer = u
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.handlers[key]; exists {
		return fmt.Errorf("%w: handler already registered for %s", command.ErrConfiguration, key)
	}
	d.handlers[key] = w
	return nil
}

// MustRegister is Register for setup code that cannot continue on error.
func MustRegister[C command.Command](d *Dispatcher, h command.Handler[C]) {
	if err := Register(d, h); err != nil {
		panic(err)
	}
}

// Validate runs the handler's validation. A false result with a nil error is
// an ordinary rejection.
func (d *Dispatcher) Validate(ctx context.Context, cmd command.Command) (bool, error) {
	inv, err := d.lookup(cmd)
	if err != nil {
		return false, err
	}
	return inv.validate(ctx, cmd)
}

// Execute runs the handler. Handler faults come back as *command.HandlerError.
func (d *Dispatcher) Execute(ctx context.Context, cmd command.Command) error {
	inv, err := d.lookup(cmd)
	if err != nil {
		return err
	}
	return inv.execute(ctx, cmd)
}

// Undo reverses cmd. The handler must implement command.UndoableHandler.
func (d *Dispatcher) Undo(ctx context.Context, cmd command.Command) error {
	inv, err := d.lookup(cmd)
	if err != nil {
		return err
	}
	return inv.undo(ctx, cmd)
}

// Registered reports whether a handler is bound to cmd's type.
func (d *Dispatcher) Registered(cmd command.Command) bool {
	if cmd == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[reflect.TypeOf(cmd)]
	return ok
}

// Len returns the number of registered command types.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers)
}

// Names lists the registered command types, sorted.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	names := make([]string, 0, len(d.handlers))
	for key := range d.handlers {
		names = append(names, key.String())
	}
	d.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (d *Dispatcher) lookup(cmd command.Command) (invoker, error) {
	if command.IsNil(cmd) {
		return nil, command.ErrNilCommand
	}
	d.mu.RLock()
	inv, ok := d.handlers[reflect.TypeOf(cmd)]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no handler registered for %T", command.ErrConfiguration, cmd)
	}
	return inv, nil
}
