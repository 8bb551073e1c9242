package model

// Item is one resolved unit of source media. Immutable once resolved; the
// pipeline never mutates it.
type Item struct {
	ID              string `json:"id"`
	SourceURL       string `json:"source_url"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	UploadDate      string `json:"upload_date,omitempty"`
}

// HasDuration reports whether the item's duration is known. A resolver that
// could not determine the duration leaves DurationSeconds at zero.
func (it Item) HasDuration() bool {
	return it.DurationSeconds > 0
}

// ItemRecord is the per-item row accumulated into a RunResult and written to
// the ledger manifest.
type ItemRecord struct {
	Item        Item   `json:"item"`
	DerivedName string `json:"derived_name"`
	Status      string `json:"status"`
	Detail      string `json:"detail,omitempty"`
}

// RunResult is the sole artifact a batch run hands back to the caller.
type RunResult struct {
	RunID      string       `json:"run_id"`
	LedgerDir  string       `json:"ledger_dir,omitempty"`
	TotalItems int          `json:"total_items"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Skipped    int          `json:"skipped"`
	Records    []ItemRecord `json:"records"`
}
