package filterless

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// keyToName maps non-rune keys to the names used in the config file.
// Rune keys are named by the rune itself, except for "Space".
var keyToName = map[tcell.Key]string{}

// validKeyNames holds every non-rune key name
var validKeyNames = map[string]struct{}{"Space": {}}

func init() {
	for i := 0; i < 26; i++ {
		keyToName[tcell.KeyCtrlA+tcell.Key(i)] = fmt.Sprintf("C-%c", 'a'+i)
	}

	// Some of these share a code with a C-x key above (Enter is C-m,
	// Tab is C-i, BS is C-h). The names here win.
	names := []struct {
		key  tcell.Key
		name string
	}{
		{tcell.KeyEnter, "Enter"},
		{tcell.KeyTab, "Tab"},
		{tcell.KeyBackspace, "BS"},
		{tcell.KeyEsc, "Esc"},
		{tcell.KeyUp, "ArrowUp"},
		{tcell.KeyDown, "ArrowDown"},
		{tcell.KeyLeft, "ArrowLeft"},
		{tcell.KeyRight, "ArrowRight"},
		{tcell.KeyPgUp, "Pgup"},
		{tcell.KeyPgDn, "Pgdn"},
		{tcell.KeyHome, "Home"},
		{tcell.KeyEnd, "End"},
		{tcell.KeyInsert, "Insert"},
		{tcell.KeyDelete, "Delete"},
	}
	for _, n := range names {
		keyToName[n.key] = n.name
	}

	for i := 0; i < 12; i++ {
		keyToName[tcell.KeyF1+tcell.Key(i)] = fmt.Sprintf("F%d", i+1)
	}

	for _, name := range keyToName {
		validKeyNames[name] = struct{}{}
	}
}

// KeyName returns the config file name of the key in ev, such as "j",
// "C-n", "Pgdn" or "M-v". It returns the empty string for keys that
// have no name.
func KeyName(ev *tcell.EventKey) string {
	var name string
	mod := ev.Modifiers()

	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		switch {
		case r == ' ':
			name = "Space"
		case mod&tcell.ModCtrl != 0:
			name = "C-" + string(unicode.ToLower(r))
		default:
			name = string(r)
		}
	} else {
		n, ok := keyToName[ev.Key()]
		if !ok {
			return ""
		}
		name = n
	}

	if mod&tcell.ModAlt != 0 {
		name = "M-" + name
	}
	return name
}

func isValidKeyName(name string) bool {
	if len(name) > 2 && name[:2] == "M-" {
		name = name[2:]
	}
	if _, ok := validKeyNames[name]; ok {
		return true
	}
	return utf8.RuneCountInString(name) == 1
}

// NewKeymap creates a Keymap from the default key bindings, with the
// entries in overrides (key name to action name) applied on top.
func NewKeymap(overrides map[string]string) (Keymap, error) {
	km := make(Keymap, len(defaultKeyBinding)+len(overrides))
	for k, a := range defaultKeyBinding {
		km[k] = a
	}

	for k, name := range overrides {
		if !isValidKeyName(k) {
			return nil, errors.Errorf("invalid key name %q", k)
		}
		a, ok := nameToActions[name]
		if !ok {
			return nil, errors.Errorf("unknown action %q for key %q", name, k)
		}
		km[k] = a
	}
	return km, nil
}

// LookupAction returns the action bound to the key in ev
func (km Keymap) LookupAction(ev *tcell.EventKey) (Action, bool) {
	name := KeyName(ev)
	if name == "" {
		return nil, false
	}
	a, ok := km[name]
	return a, ok
}
