package domain

import (
	"path/filepath"
	"strings"
)

// The filesystem is the only state shared between the two phases, so the
// file names are a contract: phase 1 writes <run>_audio_<Option>.mp3 and
// phase 2 must recover <run> from nothing but that path. The legacy
// <run>_<Option>.mp3 form is still accepted for files produced before
// the infix was introduced.

const (
	audioInfix  = "_audio_"
	videoSuffix = "_video"
	AudioExt    = ".mp3"
	VideoExt    = ".mp4"
)

// AudioCandidatePath returns the path phase 1 writes for one variant.
func AudioCandidatePath(dir, runID, label string) string {
	return filepath.Join(dir, runID+audioInfix+label+AudioExt)
}

// VideoPath returns the path phase 2 writes the final video to.
func VideoPath(dir, runID string) string {
	return filepath.Join(dir, runID+videoSuffix+VideoExt)
}

// ParseAudioPath recovers the run identifier and variant label encoded in
// a candidate audio path. It is the inverse of AudioCandidatePath and
// rejects, rather than guesses at, any other shape.
func ParseAudioPath(path string) (runID, label string, err error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	// A stem carrying the infix is resolved by the infix alone; one with
	// an empty run ID or label is malformed, not a legacy name.
	if i := strings.LastIndex(stem, audioInfix); i >= 0 {
		if i > 0 && i+len(audioInfix) < len(stem) {
			return stem[:i], stem[i+len(audioInfix):], nil
		}
		return "", "", &StateRecoveryError{Path: path}
	}

	// Legacy naming without the audio infix.
	for _, preset := range DefaultPresets() {
		if suffix := "_" + preset.Label; strings.HasSuffix(stem, suffix) && len(stem) > len(suffix) {
			return strings.TrimSuffix(stem, suffix), preset.Label, nil
		}
	}

	return "", "", &StateRecoveryError{Path: path}
}

// RunIDFromScript derives the default run identifier from a script path.
func RunIDFromScript(scriptPath string) string {
	base := filepath.Base(scriptPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
