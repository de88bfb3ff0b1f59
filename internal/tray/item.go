package tray

import (
	"github.com/godbus/dbus/v5"
)

const (
	StatusNotifierItemInterface    = "org.kde.StatusNotifierItem"
	StatusNotifierItemPath         = "/StatusNotifierItem"
	StatusNotifierWatcherInterface = "org.kde.StatusNotifierWatcher"
	StatusNotifierWatcherPath      = "/StatusNotifierWatcher"
)

// pixmap is one (iiay) icon image
type pixmap struct {
	Width  int32
	Height int32
	Bytes  []byte
}

// tooltip is the (sa(iiay)ss) ToolTip property
type tooltip struct {
	IconName    string
	Pixmaps     []pixmap
	Title       string
	Description string
}

// item holds the methods of org.kde.StatusNotifierItem. Left and middle
// clicks open the trash, the context menu is served over dbusmenu.
type item struct {
	dispatch func(Action)
}

func (i *item) Activate(x, y int32) *dbus.Error {
	i.dispatch(ActionOpen)
	return nil
}

func (i *item) SecondaryActivate(x, y int32) *dbus.Error {
	i.dispatch(ActionOpen)
	return nil
}

func (i *item) ContextMenu(x, y int32) *dbus.Error {
	return nil
}

func (i *item) Scroll(delta int32, orientation string) *dbus.Error {
	return nil
}
