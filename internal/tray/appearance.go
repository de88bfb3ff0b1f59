package tray

import "github.com/babarot/minibin/internal/bin"

// ItemStatus is the StatusNotifierItem status of the indicator
type ItemStatus string

const (
	ItemStatusActive         ItemStatus = "Active"
	ItemStatusNeedsAttention ItemStatus = "NeedsAttention"
)

// Icons holds Freedesktop icon names, one per trash status
type Icons struct {
	Empty   string
	Full    string
	Unknown string
}

// DefaultIcons returns icons from the standard icon naming spec
func DefaultIcons() Icons {
	return Icons{
		Empty:   "user-trash",
		Full:    "user-trash-full",
		Unknown: "dialog-warning",
	}
}

// Appearance is what the indicator shows for a status
type Appearance struct {
	IconName    string
	Tooltip     string
	Description string
	Status      ItemStatus
}

// appearanceOf maps a trash status to the indicator. Unknown gets its own
// glyph so a broken trash never looks empty.
func appearanceOf(status bin.Status, icons Icons) Appearance {
	switch status {
	case bin.StatusEmpty:
		return Appearance{
			IconName: icons.Empty,
			Tooltip:  "Trash is empty",
			Status:   ItemStatusActive,
		}
	case bin.StatusNonEmpty:
		return Appearance{
			IconName:    icons.Full,
			Tooltip:     "Trash contains items",
			Description: "Right click to empty or open the trash",
			Status:      ItemStatusActive,
		}
	default:
		return Appearance{
			IconName:    icons.Unknown,
			Tooltip:     "Trash status unknown",
			Description: "The trash could not be read, see the log for details",
			Status:      ItemStatusNeedsAttention,
		}
	}
}
