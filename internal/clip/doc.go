// Package clip cuts one audio file per resolved span.
//
// The cutting engine sits behind the Trimmer interface ("source in, [start,
// end] seconds, destination out, overwrite allowed"). FFmpeg is the default
// implementation and runs one blocking ffmpeg process per span.
//
// Output files are named <media base>_<start slot>_<end slot><ext> so every
// clip can be traced back to the slots of its annotation document.
package clip
