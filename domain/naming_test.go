package domain

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAudioCandidatePathRoundTrip(t *testing.T) {
	for _, preset := range DefaultPresets() {
		path := AudioCandidatePath("output", "sample_script", preset.Label)

		runID, label, err := ParseAudioPath(path)
		if err != nil {
			t.Fatalf("ParseAudioPath(%q): %v", path, err)
		}
		if runID != "sample_script" {
			t.Errorf("run ID = %q, want %q", runID, "sample_script")
		}
		if label != preset.Label {
			t.Errorf("label = %q, want %q", label, preset.Label)
		}
	}
}

func TestParseAudioPathLegacyNaming(t *testing.T) {
	runID, label, err := ParseAudioPath(filepath.Join("output", "my_script_OptionB.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	if runID != "my_script" || label != "OptionB" {
		t.Errorf("got (%q, %q), want (my_script, OptionB)", runID, label)
	}
}

func TestParseAudioPathRejectsUnknownShapes(t *testing.T) {
	for _, path := range []string{
		"output/random.mp3",
		"output/_audio_OptionA.mp3",
		"output/_audio_OptionB.mp3",
		"output/script_audio_.mp3",
		"voice.wav",
	} {
		_, _, err := ParseAudioPath(path)
		var recErr *StateRecoveryError
		if !errors.As(err, &recErr) {
			t.Errorf("ParseAudioPath(%q) = %v, want StateRecoveryError", path, err)
		}
	}
}

func TestVideoPath(t *testing.T) {
	got := VideoPath("output", "sample_script")
	want := filepath.Join("output", "sample_script_video.mp4")
	if got != want {
		t.Errorf("VideoPath = %q, want %q", got, want)
	}
}

func TestRunIDFromScript(t *testing.T) {
	if got := RunIDFromScript(filepath.Join("input", "launch notes.docx")); got != "launch notes" {
		t.Errorf("RunIDFromScript = %q", got)
	}
}
