package config

import "sort"

// Presets are sample texts selectable by name from the CLI.
var Presets = map[string]string{
	"hamlet":  "to be or not to be",
	"default": DefaultText,
	"fish":    "One fish, two fish. Red fish, blue fish. Black fish, blue fish, old fish, new fish.",
	"pangram": "The quick brown fox jumps over the lazy dog. The dog sleeps; the fox runs.",
	"numbers": "1 2 3 2 1 route 66 route 66 exit 9",
	"empty":   "",
}

func GetPreset(name string) (string, bool) {
	text, ok := Presets[name]
	return text, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
