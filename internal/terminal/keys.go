package terminal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Jelmerro/nus/internal/core"
)

// keysFromMsg maps a bubbletea key event to selector keys. A pasted or
// buffered run of characters arrives as one event and yields one key per
// rune. Right and left arrows move like up and down.
func keysFromMsg(msg tea.KeyMsg) []core.Key {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []core.Key{{Kind: core.KeyInterrupt}}
	case tea.KeyCtrlU, tea.KeyDelete:
		return []core.Key{{Kind: core.KeyClear}}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []core.Key{{Kind: core.KeyBackspace}}
	case tea.KeyEnter, tea.KeyCtrlJ:
		return []core.Key{{Kind: core.KeyEnter}}
	case tea.KeyUp, tea.KeyRight:
		return []core.Key{{Kind: core.KeyUp}}
	case tea.KeyDown, tea.KeyLeft:
		return []core.Key{{Kind: core.KeyDown}}
	case tea.KeyRunes:
		if msg.Alt {
			return []core.Key{{Kind: core.KeyIgnored}}
		}
		keys := make([]core.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, core.Key{Kind: core.KeyRune, Rune: r})
		}
		return keys
	}
	return []core.Key{{Kind: core.KeyIgnored}}
}
