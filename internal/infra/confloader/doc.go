// Package confloader provides configuration loading mechanism.
//
// The loader layers koanf sources so that explicit settings win over
// ambient ones: values from a YAML file override the defaults, and
// VOLTKV_-prefixed environment variables override the file. Targets
// are plain structs with koanf tags, unmarshaled in one step.
//
// A companion Watcher (fsnotify) reports edits to the loaded file;
// voltkv-server uses it to adjust the log level at runtime.
package confloader
