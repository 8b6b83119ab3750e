package components

import "github.com/yohamta/donburi"

type SoundStatus int

const (
	SoundStopped SoundStatus = iota
	SoundPlaying
	SoundPaused
)

// SoundData is a sound source. Playback itself belongs to the renderer; the
// status is what gets replicated.
type SoundData struct {
	Name    string
	Status  SoundStatus
	Looping bool
	Elapsed float32 // Seconds played, for one-shot sounds
	Length  float32 // One-shot length in seconds, 0 for looping
}

func (s *SoundData) Play() {
	s.Status = SoundPlaying
	s.Elapsed = 0
}

func (s *SoundData) Stop() {
	s.Status = SoundStopped
	s.Elapsed = 0
}

var Sound = donburi.NewComponentType[SoundData]()
