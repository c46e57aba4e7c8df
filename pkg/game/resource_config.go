package game

// ResourceConfig represents the sound table loaded from YAML.
// It defines the structure of data/audio/sounds.yaml.
//
// Structure:
//
//	version: "1.0"
//	base_path: data/audio
//	sounds:
//	  - id: thunder
//	    path: thunder.wav
type ResourceConfig struct {
	Version  string          `yaml:"version"`   // Configuration file version
	BasePath string          `yaml:"base_path"` // Base path for all sounds (e.g., "data/audio")
	Sounds   []SoundResource `yaml:"sounds"`    // Sound resources
}

// SoundResource represents a single sound/audio resource definition.
//
// Fields:
//   - ID: Name used by the playSound instruction (e.g., "thunder")
//   - Path: Relative path from base_path to the audio file
//
// Example:
//   - id: thunder
//     path: thunder.wav
type SoundResource struct {
	ID   string `yaml:"id"`   // Resource ID (unique identifier)
	Path string `yaml:"path"` // Relative file path from base_path
}

// buildFullPath constructs the full file path for a resource.
// It combines the base path with the resource's relative path.
//
// Parameters:
//   - basePath: The base path from ResourceConfig (e.g., "data/audio")
//   - relativePath: The resource's relative path (e.g., "thunder.wav")
//
// Returns:
//   - The full file path (e.g., "data/audio/thunder.wav")
func buildFullPath(basePath, relativePath string) string {
	if basePath == "" {
		return relativePath
	}
	// Simple path joining - handles the case where relative path might start with /
	if len(relativePath) > 0 && relativePath[0] == '/' {
		return basePath + relativePath
	}
	return basePath + "/" + relativePath
}
