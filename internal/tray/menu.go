package tray

import (
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/samber/lo"
)

const (
	MenuInterface = "com.canonical.dbusmenu"
	MenuPath      = "/MenuBar"

	menuVersion = 3
	rootID      = 0
)

// Labels holds the texts of the context menu entries
type Labels struct {
	Open  string
	Empty string
	Exit  string
}

// DefaultLabels returns the built-in menu texts
func DefaultLabels() Labels {
	return Labels{
		Open:  "Open Trash",
		Empty: "Empty Trash",
		Exit:  "Quit",
	}
}

// menuEntry is one row of the context menu
type menuEntry struct {
	id        int32
	label     string
	icon      string
	separator bool
	action    Action
}

// menuLayout is the (ia{sv}av) layout node of com.canonical.dbusmenu
type menuLayout struct {
	ID         int32
	Properties map[string]dbus.Variant
	Children   []dbus.Variant
}

// menuItemProperties is one element of GetGroupProperties' result
type menuItemProperties struct {
	ID         int32
	Properties map[string]dbus.Variant
}

// menuEvent is one element of EventGroup's argument
type menuEvent struct {
	ID        int32
	EventID   string
	Data      dbus.Variant
	Timestamp uint32
}

// menu implements com.canonical.dbusmenu for a fixed, flat menu
type menu struct {
	entries  []menuEntry
	revision uint32
	dispatch func(Action)
}

func newMenu(labels Labels, dispatch func(Action)) *menu {
	return &menu{
		entries: []menuEntry{
			{id: 1, label: labels.Open, icon: "folder-open", action: ActionOpen},
			{id: 2, label: labels.Empty, icon: "edit-clear", action: ActionEmpty},
			{id: 3, separator: true},
			{id: 4, label: labels.Exit, icon: "application-exit", action: ActionExit},
		},
		revision: 1,
		dispatch: dispatch,
	}
}

func (m *menu) entry(id int32) (menuEntry, bool) {
	return lo.Find(m.entries, func(e menuEntry) bool {
		return e.id == id
	})
}

// properties returns the properties of the node id, restricted to names
// when names is not empty
func (m *menu) properties(id int32, names []string) map[string]dbus.Variant {
	props := map[string]dbus.Variant{}
	if id == rootID {
		props["children-display"] = dbus.MakeVariant("submenu")
	} else if e, ok := m.entry(id); ok {
		if e.separator {
			props["type"] = dbus.MakeVariant("separator")
		} else {
			props["label"] = dbus.MakeVariant(e.label)
			props["icon-name"] = dbus.MakeVariant(e.icon)
			props["enabled"] = dbus.MakeVariant(true)
			props["visible"] = dbus.MakeVariant(true)
		}
	}

	if len(names) == 0 {
		return props
	}
	return lo.PickByKeys(props, names)
}

func (m *menu) layout(parentID int32, depth int32, names []string) (menuLayout, bool) {
	node := menuLayout{
		ID:         parentID,
		Properties: m.properties(parentID, names),
		Children:   []dbus.Variant{},
	}

	if parentID != rootID {
		_, ok := m.entry(parentID)
		return node, ok
	}

	if depth == 0 {
		return node, true
	}
	for _, e := range m.entries {
		child := menuLayout{
			ID:         e.id,
			Properties: m.properties(e.id, names),
			Children:   []dbus.Variant{},
		}
		node.Children = append(node.Children, dbus.MakeVariant(child))
	}
	return node, true
}

func (m *menu) GetLayout(parentID int32, recursionDepth int32, propertyNames []string) (uint32, menuLayout, *dbus.Error) {
	node, ok := m.layout(parentID, recursionDepth, propertyNames)
	if !ok {
		return 0, node, dbus.MakeFailedError(errUnknownMenuItem)
	}
	return m.revision, node, nil
}

func (m *menu) GetGroupProperties(ids []int32, propertyNames []string) ([]menuItemProperties, *dbus.Error) {
	if len(ids) == 0 {
		ids = append([]int32{rootID}, lo.Map(m.entries, func(e menuEntry, _ int) int32 { return e.id })...)
	}
	var result []menuItemProperties
	for _, id := range ids {
		if _, ok := m.entry(id); !ok && id != rootID {
			continue
		}
		result = append(result, menuItemProperties{ID: id, Properties: m.properties(id, propertyNames)})
	}
	return result, nil
}

func (m *menu) GetProperty(id int32, name string) (dbus.Variant, *dbus.Error) {
	v, ok := m.properties(id, []string{name})[name]
	if !ok {
		return dbus.MakeVariant(""), dbus.MakeFailedError(errUnknownMenuItem)
	}
	return v, nil
}

func (m *menu) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	m.handle(id, eventID)
	return nil
}

func (m *menu) EventGroup(events []menuEvent) ([]int32, *dbus.Error) {
	var notFound []int32
	for _, ev := range events {
		if !m.handle(ev.ID, ev.EventID) {
			notFound = append(notFound, ev.ID)
		}
	}
	return notFound, nil
}

func (m *menu) AboutToShow(id int32) (bool, *dbus.Error) {
	return false, nil
}

func (m *menu) AboutToShowGroup(ids []int32) ([]int32, []int32, *dbus.Error) {
	return []int32{}, []int32{}, nil
}

// handle dispatches a clicked entry and reports whether id exists
func (m *menu) handle(id int32, eventID string) bool {
	e, ok := m.entry(id)
	if !ok {
		return id == rootID
	}
	if eventID != "clicked" || e.separator {
		return true
	}
	slog.Debug("menu entry clicked", "id", id, "action", e.action)
	m.dispatch(e.action)
	return true
}
