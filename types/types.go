package types

// Row holds the similarity scores for one (reference, student) pair
type Row struct {
	Student   string  `json:"student"`
	LPIPS     float64 `json:"lpips"`
	SSIM      float64 `json:"ssim"`
	Reference string  `json:"reference,omitempty"`
}

// Table is an ordered list of rows, ranked by LPIPS when produced by a run
type Table []Row

// Column names of the persisted table, in header order
const (
	ColumnStudent = "Student"
	ColumnLPIPS   = "LPIPS"
	ColumnSSIM    = "SSIM"
)

// Columns returns the required header in write order
func Columns() []string {
	return []string{ColumnStudent, ColumnLPIPS, ColumnSSIM}
}

// RunInfo describes one archived comparison run
type RunInfo struct {
	ID          string `json:"id"`
	Folder      string `json:"folder"`
	MineFolder  string `json:"mine_folder"`
	OutputPath  string `json:"output_path"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
	RowCount    int    `json:"row_count"`
}
