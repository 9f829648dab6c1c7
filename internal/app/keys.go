package app

import "github.com/nhle/notify/internal/keys"

// KeyMap is re-exported from the keys package so views and the root
// model share one set of bindings.
type KeyMap = keys.KeyMap

// DefaultKeyMap delegates to keys.DefaultKeyMap.
func DefaultKeyMap() *KeyMap {
	return keys.DefaultKeyMap()
}
