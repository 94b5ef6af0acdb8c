package engine

import (
	"fmt"
	"slices"
)

// ScriptFactory creates a Component from JSON props.
type ScriptFactory func(props map[string]any) Component

// ScriptSerializer converts a Component back to props for JSON saving.
// It returns nil for components it does not own.
type ScriptSerializer func(c Component) map[string]any

// ScriptApplier applies a single property value to a script component.
// Returns true if the property was applied successfully.
type ScriptApplier func(c Component, propName string, value any) bool

type scriptEntry struct {
	factory    ScriptFactory
	serializer ScriptSerializer
	applier    ScriptApplier
}

var scriptRegistry = map[string]scriptEntry{}

// RegisterScript registers a named script with a factory and optional serializer.
// Registering the same name twice panics; registration happens from init.
func RegisterScript(name string, factory ScriptFactory, serializer ScriptSerializer) {
	RegisterScriptWithApplier(name, factory, serializer, nil)
}

// RegisterScriptWithApplier registers a script with factory, serializer, and property applier.
func RegisterScriptWithApplier(name string, factory ScriptFactory, serializer ScriptSerializer, applier ScriptApplier) {
	if _, exists := scriptRegistry[name]; exists {
		panic(fmt.Sprintf("script %q already registered", name))
	}
	scriptRegistry[name] = scriptEntry{factory: factory, serializer: serializer, applier: applier}
}

// CreateScript looks up a registered script by name and creates it with the given props.
// Returns nil for unknown names.
func CreateScript(name string, props map[string]any) Component {
	entry, ok := scriptRegistry[name]
	if !ok {
		return nil
	}
	if props == nil {
		props = map[string]any{}
	}
	return entry.factory(props)
}

// SerializeScript finds the script that owns c and returns its name and props.
func SerializeScript(c Component) (string, map[string]any, bool) {
	for _, name := range GetRegisteredScripts() {
		entry := scriptRegistry[name]
		if entry.serializer == nil {
			continue
		}
		if props := entry.serializer(c); props != nil {
			return name, props, true
		}
	}
	return "", nil, false
}

// GetRegisteredScripts returns the registered script names in sorted order.
func GetRegisteredScripts() []string {
	var names []string
	for name := range scriptRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ApplyScriptProperty applies a property value to whichever script accepts it.
func ApplyScriptProperty(c Component, propName string, value any) bool {
	for _, entry := range scriptRegistry {
		if entry.applier == nil {
			continue
		}
		if entry.applier(c, propName, value) {
			return true
		}
	}
	return false
}

// PropFloat reads a numeric prop decoded from JSON or YAML.
func PropFloat(props map[string]any, key string, fallback float32) float32 {
	switch v := props[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	case int:
		return float32(v)
	}
	return fallback
}

// PropBool reads a boolean prop.
func PropBool(props map[string]any, key string, fallback bool) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return fallback
}

// PropString reads a string prop.
func PropString(props map[string]any, key string, fallback string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return fallback
}
