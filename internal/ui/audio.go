package ui

import (
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundType identifies a sound effect.
type SoundType int

const (
	SoundMove SoundType = iota
	SoundCapture
	SoundCheck
	SoundInvalid
	SoundGameEnd
)

const sampleRate = 44100

// envelope maps progress through a sound in [0, 1] to an amplitude factor.
type envelope func(progress, seconds float64) float64

func percussive(_, seconds float64) float64 {
	return math.Exp(-seconds * 30)
}

func attackDecay(progress, _ float64) float64 {
	if progress < 0.1 {
		return progress / 0.1
	}
	return 1.0 - (progress-0.1)/0.9
}

func linearDecay(progress, _ float64) float64 {
	return 1.0 - progress
}

func swell(progress, _ float64) float64 {
	switch {
	case progress < 0.1:
		return progress / 0.1
	case progress > 0.7:
		return (1.0 - progress) / 0.3
	default:
		return 1.0
	}
}

// tone describes a procedural sound: the partials summed, an envelope and a
// peak amplitude.
type tone struct {
	freqs     []float64
	overtone  float64 // weight of the second harmonic
	noise     bool    // add a wooden click texture
	duration  float64
	amplitude float64
	env       envelope
}

var tones = map[SoundType]tone{
	SoundMove:    {freqs: []float64{440}, noise: true, duration: 0.08, amplitude: 0.3, env: percussive},
	SoundCapture: {freqs: []float64{330}, noise: true, duration: 0.12, amplitude: 0.5, env: percussive},
	SoundCheck:   {freqs: []float64{880}, duration: 0.15, amplitude: 0.4, env: attackDecay},
	SoundInvalid: {freqs: []float64{150}, overtone: 0.3, duration: 0.1, amplitude: 0.15, env: linearDecay},
	SoundGameEnd: {freqs: []float64{261.63, 329.63, 392.00}, duration: 0.4, amplitude: 0.5, env: swell},
}

// synthesize renders t as 16-bit little-endian stereo PCM.
func synthesize(t tone) []byte {
	samples := int(sampleRate * t.duration)
	data := make([]byte, samples*4)

	for i := 0; i < samples; i++ {
		sec := float64(i) / sampleRate
		progress := sec / t.duration

		v := 0.0
		for _, f := range t.freqs {
			v += math.Sin(2*math.Pi*f*sec) + t.overtone*math.Sin(4*math.Pi*f*sec)
		}
		v /= float64(len(t.freqs))
		if t.noise {
			v += (math.Sin(float64(i)*0.3) + math.Sin(float64(i)*0.7)) * 0.3
		}

		s := int16(v * t.env(progress, sec) * t.amplitude * 32767)
		data[i*4], data[i*4+1] = byte(s), byte(s>>8)
		data[i*4+2], data[i*4+3] = byte(s), byte(s>>8)
	}
	return data
}

// AudioManager plays the procedural sound effects.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

func NewAudioManager() *AudioManager {
	am := &AudioManager{
		context: audio.NewContext(sampleRate),
		sounds:  make(map[SoundType][]byte, len(tones)),
		enabled: true,
		volume:  0.5,
	}
	for st, t := range tones {
		am.sounds[st] = synthesize(t)
	}
	return am
}

// Play starts sound on a fresh player so effects can overlap.
func (am *AudioManager) Play(sound SoundType) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

func (am *AudioManager) SetEnabled(enabled bool) {
	if enabled != am.enabled {
		log.Printf("[UI] sound enabled=%v", enabled)
	}
	am.enabled = enabled
}

func (am *AudioManager) IsEnabled() bool {
	return am.enabled
}
