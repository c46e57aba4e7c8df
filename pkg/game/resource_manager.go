package game

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/decker502/actionlist/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"gopkg.in/yaml.v3"
)

// ResourceManager is responsible for loading audio resources from the embedded data.
// Raw file contents are cached so that each sound is read only once; every call to
// LoadSound returns a fresh player so that markers can be stopped independently.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. For the current single-threaded game loop,
// no synchronization is needed.
//
// Usage:
//
//	audioContext := audio.NewContext(48000)
//	rm := NewResourceManager(audioContext)
//	if err := rm.LoadResourceConfig("data/audio/sounds.yaml"); err != nil {
//	    log.Printf("Failed to load sound table: %v", err)
//	}
//	player, err := rm.LoadSound("thunder", false)
type ResourceManager struct {
	audioContext *audio.Context    // Global audio context for audio decoding
	dataCache    map[string][]byte // Raw audio file contents: path -> bytes
	config       *ResourceConfig   // Parsed YAML configuration
	resourceMap  map[string]string // Sound ID -> file path mapping for quick lookup
}

// NewResourceManager creates and initializes a new ResourceManager instance.
// The audioContext parameter is required for audio decoding and playback.
// It should be created once at game startup with a sample rate of 48000 Hz.
func NewResourceManager(audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		audioContext: audioContext,
		dataCache:    make(map[string][]byte),
		resourceMap:  make(map[string]string),
	}
}

// LoadResourceConfig loads the sound table from the embedded data.
func (rm *ResourceManager) LoadResourceConfig(configPath string) error {
	data, err := embedded.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read resource config %s: %w", configPath, err)
	}

	var cfg ResourceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse resource config %s: %w", configPath, err)
	}

	rm.config = &cfg
	rm.buildResourceMap()
	log.Printf("[ResourceManager] Loaded %d sounds from %s", len(rm.resourceMap), configPath)
	return nil
}

// buildResourceMap builds the ID -> path lookup table from the loaded config.
func (rm *ResourceManager) buildResourceMap() {
	rm.resourceMap = make(map[string]string, len(rm.config.Sounds))
	for _, sound := range rm.config.Sounds {
		if sound.ID == "" || sound.Path == "" {
			log.Printf("[ResourceManager] Warning: skipping incomplete sound entry %+v", sound)
			continue
		}
		rm.resourceMap[sound.ID] = buildFullPath(rm.config.BasePath, sound.Path)
	}
}

// SoundPath returns the file path of a sound ID.
func (rm *ResourceManager) SoundPath(id string) (string, bool) {
	path, ok := rm.resourceMap[id]
	return path, ok
}

// readAudio returns the raw contents of an audio file, reading it once.
func (rm *ResourceManager) readAudio(path string) ([]byte, error) {
	if data, ok := rm.dataCache[path]; ok {
		return data, nil
	}
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file %s: %w", path, err)
	}
	rm.dataCache[path] = data
	return data, nil
}

// LoadSound decodes a sound by ID and creates a new player for it.
// Supported formats: WAV (.wav), MP3 (.mp3) and OGG Vorbis (.ogg).
//
// Parameters:
//   - id: The sound ID from the sound table.
//   - loop: Wrap the stream in an infinite loop (background music, ambient loops).
//
// Returns:
//   - A player that is ready to play, but not started.
//   - An error if the ID is unknown, or the file cannot be read or decoded.
func (rm *ResourceManager) LoadSound(id string, loop bool) (*audio.Player, error) {
	if rm.audioContext == nil {
		return nil, fmt.Errorf("audio context not initialized")
	}
	path, ok := rm.resourceMap[id]
	if !ok {
		return nil, fmt.Errorf("sound %q not found in sound table", id)
	}

	data, err := rm.readAudio(path)
	if err != nil {
		return nil, err
	}
	reader := bytes.NewReader(data)

	var stream interface {
		io.ReadSeeker
		Length() int64
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		decoded, err := wav.DecodeWithSampleRate(rm.audioContext.SampleRate(), reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV audio %s: %w", path, err)
		}
		stream = decoded
	case ".mp3":
		decoded, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", path, err)
		}
		stream = decoded
	case ".ogg":
		decoded, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", path, err)
		}
		stream = decoded
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .wav, .mp3, .ogg)", ext)
	}

	var src io.Reader = stream
	if loop {
		src = audio.NewInfiniteLoop(stream, stream.Length())
	}

	player, err := rm.audioContext.NewPlayer(src)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}
	return player, nil
}
