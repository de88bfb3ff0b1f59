// Package tray shows the trash status in the desktop's system tray using
// the freedesktop StatusNotifierItem and com.canonical.dbusmenu protocols,
// and sends desktop notifications.
//
// All changes to what the user sees happen on a single goroutine, the one
// running [Indicator.Run]. Other goroutines only queue work for it.
package tray

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/babarot/minibin/internal/bin"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const queueSize = 64

// Indicator is the tray icon of the trash, its context menu and its
// notifications
type Indicator struct {
	conn    *dbus.Conn
	id      string
	title   string
	busName string
	icons   Icons
	labels  Labels

	item     *item
	menu     *menu
	notifier *notifier
	props    *prop.Properties

	ops     chan func()
	done    chan struct{}
	signals chan *dbus.Signal

	mu       sync.Mutex
	status   bin.Status
	onAction func(Action)
}

// Option configures an Indicator
type Option func(*Indicator)

// WithID sets the application id announced to the tray
func WithID(id string) Option {
	return func(i *Indicator) {
		i.id = id
	}
}

// WithTitle sets the title of the indicator
func WithTitle(title string) Option {
	return func(i *Indicator) {
		i.title = title
	}
}

// WithIcons sets the icon names used for each status
func WithIcons(icons Icons) Option {
	return func(i *Indicator) {
		i.icons = icons
	}
}

// WithLabels sets the context menu texts
func WithLabels(labels Labels) Option {
	return func(i *Indicator) {
		i.labels = labels
	}
}

// WithNotificationTimeout sets how long notifications stay on screen.
// Non-positive values are ignored.
func WithNotificationTimeout(d time.Duration) Option {
	return func(i *Indicator) {
		if i.notifier != nil && d > 0 {
			i.notifier.timeout = d
		}
	}
}

// New returns an Indicator showing the empty trash. Nothing is visible
// until Register succeeds. conn may be nil in which case the indicator only
// keeps track of its state.
func New(conn *dbus.Conn, opts ...Option) *Indicator {
	i := &Indicator{
		conn:    conn,
		id:      "minibin",
		title:   "Recycle Bin",
		busName: fmt.Sprintf("org.kde.StatusNotifierItem-%d-1", os.Getpid()),
		icons:   DefaultIcons(),
		labels:  DefaultLabels(),
		ops:     make(chan func(), queueSize),
		done:    make(chan struct{}),
		signals: make(chan *dbus.Signal, 16),
		status:  bin.StatusEmpty,
	}
	if conn != nil {
		i.notifier = &notifier{conn: conn, timeout: time.Second}
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.notifier != nil {
		i.notifier.appName = i.id
	}
	i.item = &item{dispatch: i.dispatch}
	i.menu = newMenu(i.labels, i.dispatch)
	return i
}

// OnAction registers the callback for user actions. It runs on its own
// goroutine so it may block.
func (i *Indicator) OnAction(callback func(Action)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.onAction = callback
}

// Register publishes the indicator on the session bus. It returns an error
// wrapping ErrUnavailable when no tray host is running.
func (i *Indicator) Register() error {
	if i.conn == nil {
		return fmt.Errorf("register: no session bus: %w", ErrUnavailable)
	}

	var hasWatcher bool
	if err := i.conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, StatusNotifierWatcherInterface).Store(&hasWatcher); err != nil {
		return fmt.Errorf("register: failed to look up %s: %w", StatusNotifierWatcherInterface, err)
	}
	if !hasWatcher {
		return fmt.Errorf("register: %s is not running: %w", StatusNotifierWatcherInterface, ErrUnavailable)
	}

	reply, err := i.conn.RequestName(i.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("register: failed to request name %s: %w", i.busName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("register: %s: %w", i.busName, ErrNameTaken)
	}

	if err := i.export(); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	if err := i.registerWithWatcher(); err != nil {
		return fmt.Errorf("register: %w: %w", ErrUnavailable, err)
	}

	// Re-register whenever the watcher restarts, e.g. when the panel crashes
	if err := i.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, StatusNotifierWatcherInterface),
	); err != nil {
		slog.Warn("failed to watch for tray restarts", "error", err)
	}
	i.conn.Signal(i.signals)

	slog.Info("indicator registered", "name", i.busName)
	return nil
}

// Run processes queued work until ctx is done. It is the only goroutine
// that touches the bus objects after Register.
func (i *Indicator) Run(ctx context.Context) error {
	defer close(i.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case op := <-i.ops:
			op()
		case signal := <-i.signals:
			i.handleSignal(signal)
		}
	}
}

// SetIndicator queues a swap of the icon and tooltip for status
func (i *Indicator) SetIndicator(status bin.Status) {
	i.post(func() {
		i.render(status)
	})
}

// Notify queues a desktop notification. status selects the icon.
func (i *Indicator) Notify(title, message string, status bin.Status) {
	icon := appearanceOf(status, i.icons).IconName
	i.post(func() {
		if i.notifier == nil {
			slog.Debug("no notification service", "title", title, "message", message)
			return
		}
		if err := i.notifier.notify(icon, title, message); err != nil {
			slog.Warn("failed to show notification", "message", message, "error", err)
		}
	})
}

// Current returns the status the indicator is showing
func (i *Indicator) Current() bin.Status {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

// Close removes the indicator from the bus
func (i *Indicator) Close() error {
	if i.conn == nil {
		return nil
	}
	_, err := i.conn.ReleaseName(i.busName)
	return err
}

func (i *Indicator) post(op func()) {
	select {
	case i.ops <- op:
	case <-i.done:
	}
}

func (i *Indicator) dispatch(a Action) {
	i.mu.Lock()
	callback := i.onAction
	i.mu.Unlock()

	if callback == nil {
		slog.Debug("no action handler", "action", a)
		return
	}
	// D-Bus method calls must return promptly
	go callback(a)
}

func (i *Indicator) render(status bin.Status) {
	i.mu.Lock()
	i.status = status
	i.mu.Unlock()

	if i.props == nil {
		return
	}

	a := appearanceOf(status, i.icons)
	i.props.SetMust(StatusNotifierItemInterface, "IconName", a.IconName)
	i.props.SetMust(StatusNotifierItemInterface, "ToolTip", i.tooltipOf(a))
	i.props.SetMust(StatusNotifierItemInterface, "Status", string(a.Status))

	for _, signal := range []struct {
		name string
		args []any
	}{
		{name: "NewIcon"},
		{name: "NewToolTip"},
		{name: "NewStatus", args: []any{string(a.Status)}},
	} {
		if err := i.conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+"."+signal.name, signal.args...); err != nil {
			slog.Warn("failed to emit signal", "signal", signal.name, "error", err)
		}
	}
	slog.Debug("indicator updated", "status", status, "icon", a.IconName)
}

func (i *Indicator) tooltipOf(a Appearance) tooltip {
	return tooltip{
		IconName:    a.IconName,
		Pixmaps:     []pixmap{},
		Title:       a.Tooltip,
		Description: a.Description,
	}
}

func (i *Indicator) itemProperties() map[string]*prop.Prop {
	a := appearanceOf(i.Current(), i.icons)
	return map[string]*prop.Prop{
		"Category":            {Value: "SystemServices"},
		"Id":                  {Value: i.id},
		"Title":               {Value: i.title},
		"Status":              {Value: string(a.Status), Emit: prop.EmitTrue},
		"WindowId":            {Value: uint32(0)},
		"IconThemePath":       {Value: ""},
		"IconName":            {Value: a.IconName, Emit: prop.EmitTrue},
		"IconPixmap":          {Value: []pixmap{}},
		"OverlayIconName":     {Value: ""},
		"OverlayIconPixmap":   {Value: []pixmap{}},
		"AttentionIconName":   {Value: i.icons.Unknown},
		"AttentionIconPixmap": {Value: []pixmap{}},
		"AttentionMovieName":  {Value: ""},
		"ToolTip":             {Value: i.tooltipOf(a), Emit: prop.EmitTrue},
		"ItemIsMenu":          {Value: false},
		"Menu":                {Value: dbus.ObjectPath(MenuPath)},
	}
}

func (i *Indicator) menuProperties() map[string]*prop.Prop {
	return map[string]*prop.Prop{
		"Version":       {Value: uint32(menuVersion)},
		"TextDirection": {Value: "ltr"},
		"Status":        {Value: "normal"},
		"IconThemePath": {Value: []string{}},
	}
}

func (i *Indicator) export() error {
	if err := i.conn.Export(i.item, StatusNotifierItemPath, StatusNotifierItemInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", StatusNotifierItemInterface, err)
	}
	props, err := prop.Export(i.conn, StatusNotifierItemPath, prop.Map{
		StatusNotifierItemInterface: i.itemProperties(),
	})
	if err != nil {
		return fmt.Errorf("failed to export item properties: %w", err)
	}
	i.props = props

	if err := i.conn.Export(i.menu, MenuPath, MenuInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", MenuInterface, err)
	}
	menuProps, err := prop.Export(i.conn, MenuPath, prop.Map{
		MenuInterface: i.menuProperties(),
	})
	if err != nil {
		return fmt.Errorf("failed to export menu properties: %w", err)
	}

	itemNode := introspectNode(StatusNotifierItemPath, StatusNotifierItemInterface, i.item, props, []introspect.Signal{
		{Name: "NewIcon"},
		{Name: "NewToolTip"},
		{Name: "NewStatus", Args: []introspect.Arg{{Name: "status", Type: "s"}}},
	})
	menuNode := introspectNode(MenuPath, MenuInterface, i.menu, menuProps, []introspect.Signal{
		{Name: "LayoutUpdated", Args: []introspect.Arg{{Name: "revision", Type: "u"}, {Name: "parent", Type: "i"}}},
	})
	for path, node := range map[dbus.ObjectPath]*introspect.Node{
		StatusNotifierItemPath: itemNode,
		MenuPath:               menuNode,
	} {
		if err := i.conn.Export(introspect.NewIntrospectable(node), path, "org.freedesktop.DBus.Introspectable"); err != nil {
			return fmt.Errorf("failed to export introspection for %s: %w", path, err)
		}
	}
	return nil
}

func (i *Indicator) registerWithWatcher() error {
	call := i.conn.Object(StatusNotifierWatcherInterface, StatusNotifierWatcherPath).Call(
		StatusNotifierWatcherInterface+".RegisterStatusNotifierItem",
		0,
		i.busName,
	)
	if call.Err != nil {
		return fmt.Errorf("failed to register with %s: %w", StatusNotifierWatcherInterface, call.Err)
	}
	return nil
}

func (i *Indicator) handleSignal(signal *dbus.Signal) {
	if signal == nil || signal.Name != "org.freedesktop.DBus.NameOwnerChanged" || len(signal.Body) < 3 {
		return
	}
	name, _ := signal.Body[0].(string)
	newOwner, _ := signal.Body[2].(string)
	if name != StatusNotifierWatcherInterface || newOwner == "" {
		return
	}

	slog.Info("status notifier watcher restarted, registering again")
	if err := i.registerWithWatcher(); err != nil {
		slog.Warn("failed to register again", "error", err)
	}
}

func introspectNode(path dbus.ObjectPath, iface string, v any, props *prop.Properties, signals []introspect.Signal) *introspect.Node {
	return &introspect.Node{
		Name: string(path),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       iface,
				Methods:    introspect.Methods(v),
				Signals:    signals,
				Properties: props.Introspection(iface),
			},
		},
	}
}
