package main

import (
	"database/sql"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"handcompare/comparator"
	"handcompare/config"
	"handcompare/database"
	"handcompare/imageprocessor"
	"handcompare/logging"
	"handcompare/model"
	"handcompare/signalhandler"
	"handcompare/table"
	"handcompare/types"
	"handcompare/utils"
	"handcompare/visualizer"
)

func main() {
	// Close the debug log on interrupt
	signalhandler.SetupHandler(logging.CloseLogger)

	// Parse command line arguments into a map
	args := utils.ParseArguments()

	cfg, err := config.Load(args)
	if err != nil {
		fmt.Printf("Error: %v\n\n", err)
		utils.PrintUsage()
		os.Exit(1)
	}

	// Setup debug logging if enabled
	if cfg.Debug {
		if err := logging.SetupLogger(cfg.LogPath); err != nil {
			fmt.Printf("Warning: Failed to setup logging: %v\n", err)
		} else {
			fmt.Printf("Debug mode enabled. Logging to: %s\n", cfg.LogPath)
		}
		defer logging.CloseLogger()
	}

	// Show usage if required arguments are missing
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n\n", err)
		utils.PrintUsage()
		os.Exit(1)
	}

	switch cfg.Command {
	case "compare":
		handleCompareCommand(cfg)
	case "plot":
		handlePlotCommand(cfg)
	case "history":
		handleHistoryCommand(cfg)
	}
}

func handleCompareCommand(cfg *config.Config) {
	for _, dir := range []string{cfg.Folder, cfg.MineFolder} {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				log.Fatalf("Folder path does not exist: %s", dir)
			}
			log.Fatalf("Cannot access folder path: %s (%v)", dir, err)
		}
		if !info.IsDir() {
			log.Fatalf("Path is not a directory: %s", dir)
		}
	}

	modelPath, err := model.PrepareModel(model.Options{
		Path:     cfg.ModelPath,
		Repo:     cfg.ModelRepo,
		OnnxFile: cfg.ModelFile,
		Dir:      cfg.ModelDir,
	})
	if err != nil {
		log.Fatalf("Error preparing LPIPS model: %v", err)
	}

	lpips, err := imageprocessor.NewLPIPS(imageprocessor.LPIPSOptions{
		ModelPath: modelPath,
		InputSize: cfg.LPIPSSize,
		Normalize: cfg.Normalize,
	})
	if err != nil {
		log.Fatalf("Error loading LPIPS model: %v", err)
	}
	defer lpips.Close()

	ssimSize := image.Point{X: cfg.SSIMSize, Y: cfg.SSIMSize}
	cmp := comparator.New(lpips.Distance, func(reference, candidate string) float64 {
		return imageprocessor.ComputeSSIM(reference, candidate, ssimSize)
	})

	fmt.Printf("Comparing %s against references in %s\n", cfg.Folder, cfg.MineFolder)
	logging.DebugLog("LPIPS model: %s (input %d, normalize %v), SSIM size %d", modelPath, cfg.LPIPSSize, cfg.Normalize, cfg.SSIMSize)

	startTime := time.Now()
	result, err := cmp.CompareFolders(cfg.Folder, cfg.MineFolder)
	if err != nil {
		if errors.Is(err, comparator.ErrNoReferences) {
			log.Fatalf("Error: %v (%s)", err, cfg.MineFolder)
		}
		log.Fatalf("Error comparing images: %v", err)
	}

	printTable(result)

	if err := table.Write(cfg.OutputPath, result); err != nil {
		log.Fatalf("Error writing results: %v", err)
	}
	logging.Success("Results saved to %s", cfg.OutputPath)

	if cfg.DatabasePath != "" {
		archiveRun(cfg, result, startTime)
	}

	fmt.Printf("Total execution time: %v\n", time.Since(startTime))
}

// printTable shows the ranked rows on the console
func printTable(t types.Table) {
	fmt.Printf("\n%-5s %-32s %-10s %-10s %s\n", "Rank", types.ColumnStudent, types.ColumnLPIPS, types.ColumnSSIM, "Reference")
	for i, row := range t {
		fmt.Printf("%-5d %-32s %-10.4f %-10.4f %s\n", i+1, row.Student, row.LPIPS, row.SSIM, row.Reference)
	}
	fmt.Println()
}

func archiveRun(cfg *config.Config, result types.Table, startTime time.Time) {
	db, err := database.InitDatabase(cfg.DatabasePath)
	if err != nil {
		logging.Warn("cannot open run archive %s: %v", cfg.DatabasePath, err)
		return
	}
	defer db.Close()

	run := types.RunInfo{
		ID:         database.NewRunID(),
		Folder:     cfg.Folder,
		MineFolder: cfg.MineFolder,
		OutputPath: cfg.OutputPath,
		StartedAt:  startTime.Format(time.RFC3339),
	}
	if err := database.StoreRun(db, run, result); err != nil {
		logging.Warn("cannot archive run: %v", err)
		return
	}

	stats, err := database.GetRunStats(db, run.ID)
	if err == nil && stats != nil {
		fmt.Printf("Summary (run %s):\n", run.ID)
		fmt.Printf("- Total rows: %d\n", stats.TotalRows)
		fmt.Printf("- Unique students: %d\n", stats.UniqueStudents)
		if stats.TotalRows > 0 {
			fmt.Printf("- Closest match: %s (LPIPS %.4f)\n", stats.BestStudent, stats.BestLPIPS)
		}
	}
}

func handlePlotCommand(cfg *config.Config) {
	info, err := os.Stat(cfg.CSVFolder)
	if err != nil || !info.IsDir() {
		log.Fatalf("CSV folder does not exist: %s", cfg.CSVFolder)
	}

	_, err = visualizer.Run(visualizer.Options{
		Folder:   cfg.CSVFolder,
		Show:     cfg.Show,
		FontPath: cfg.FontPath,
		Render:   cfg.RenderOptions(),
	})
	if err != nil {
		log.Fatalf("Error plotting results: %v", err)
	}
}

func handleHistoryCommand(cfg *config.Config) {
	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		log.Fatalf("Database does not exist: %s. Run compare with --database first.", dbPath)
	}

	db, err := database.OpenDatabase(dbPath)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	if cfg.RunID != "" {
		showRun(db, cfg.RunID)
		return
	}

	runs, err := database.ListRuns(db, cfg.HistoryLimit)
	if err != nil {
		log.Fatalf("Error listing runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	for _, run := range runs {
		fmt.Printf("%s  %s\n", run.ID, run.StartedAt)
		fmt.Printf("   %s vs %s: %d rows -> %s\n", run.Folder, run.MineFolder, run.RowCount, run.OutputPath)
	}
}

// showRun prints one archived run with its ranked rows
func showRun(db *sql.DB, runID string) {
	run, err := database.GetRun(db, runID)
	if err != nil {
		log.Fatalf("Error loading run: %v", err)
	}
	rows, err := database.LoadRunResults(db, run.ID)
	if err != nil {
		log.Fatalf("Error loading results of run %s: %v", run.ID, err)
	}

	fmt.Printf("Run %s (%s - %s)\n", run.ID, run.StartedAt, run.CompletedAt)
	fmt.Printf("%s vs %s -> %s\n", run.Folder, run.MineFolder, run.OutputPath)
	printTable(rows)
}
