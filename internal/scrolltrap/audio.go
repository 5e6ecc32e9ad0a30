// Package scrolltrap declares the audio-cue side channel.
//
// Audio synthesis is an external collaborator. The core only signals cues;
// delivery is fire-and-forget and must never block or fail the caller, so
// sinks run on their own goroutine and panics are swallowed.
package scrolltrap

// AudioCue names a sound the simulation wants played.
type AudioCue string

// Audio cues emitted by the trigger processes.
const (
	CueNotification AudioCue = "notification"
	CueLikeSpike    AudioCue = "like_spike"
)

// AudioCueSink receives audio cues. Implementations live in the rendering
// layer; the core ships only the no-op sink.
type AudioCueSink interface {
	Play(cue AudioCue)
}

// NoopAudioSink discards all cues.
type NoopAudioSink struct{}

// Play implements AudioCueSink.
func (NoopAudioSink) Play(AudioCue) {}

// playCue delivers a cue without ever blocking or propagating a failure.
func playCue(sink AudioCueSink, cue AudioCue) {
	if sink == nil {
		return
	}
	go func() {
		defer func() {
			_ = recover() // Sink failures are not the session's problem.
		}()
		sink.Play(cue)
	}()
}
