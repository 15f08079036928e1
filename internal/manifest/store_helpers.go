package manifest

import (
	"database/sql"
	"time"
)

const (
	runColumns  = "id, started_at, finished_at, input_dir, output_dir, tier_id, documents, clips, failures"
	clipColumns = "id, run_id, document, media, start_slot, end_slot, start_seconds, end_seconds, wav_path, txt_path, text, created_at"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := row.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.InputDir,
		&run.OutputDir,
		&run.TierID,
		&run.Documents,
		&run.Clips,
		&run.Failures,
	); err != nil {
		return nil, err
	}
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	return &run, nil
}

func scanClip(row scanner) (Clip, error) {
	var (
		clip       Clip
		createdRaw string
	)
	if err := row.Scan(
		&clip.ID,
		&clip.RunID,
		&clip.Document,
		&clip.Media,
		&clip.StartSlot,
		&clip.EndSlot,
		&clip.StartSeconds,
		&clip.EndSeconds,
		&clip.WavPath,
		&clip.TxtPath,
		&clip.Text,
		&createdRaw,
	); err != nil {
		return Clip{}, err
	}
	clip.CreatedAt = parseTime(createdRaw)
	return clip, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
