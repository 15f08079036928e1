package clip

import (
	"path/filepath"
	"strings"
)

const (
	// AudioExt is the extension of produced clips.
	AudioExt = ".wav"
	// TextExt is the extension of produced transcripts.
	TextExt = ".txt"
)

// BaseName returns the media file name up to its first dot, matching the
// naming of existing corpora ("take.1.wav" becomes "take"). Names that start
// with a dot fall back to stripping only the final extension.
func BaseName(mediaPath string) string {
	name := filepath.Base(mediaPath)
	if idx := strings.Index(name, "."); idx > 0 {
		return name[:idx]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// OutputName builds the clip or transcript path for a span inside outDir.
// Slot ids are used verbatim.
func OutputName(outDir, mediaPath, startSlot, endSlot, ext string) string {
	return filepath.Join(outDir, BaseName(mediaPath)+"_"+startSlot+"_"+endSlot+ext)
}
