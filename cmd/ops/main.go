package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Mobin10111010/Planning/internal/ops"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "backup":
		err = cmdBackup(os.Args[2:])
	case "restore":
		err = cmdRestore(os.Args[2:])
	case "verify":
		err = cmdVerify(os.Args[2:])
	case "drill":
		err = cmdDrill(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "planning-"+ts+".tar.gz")
	}

	if err := ops.BackupDataDir(*dataDir, *out); err != nil {
		return err
	}
	fmt.Println(*out)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	return ops.RestoreDataDir(*archive, *target)
}

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rep, err := ops.VerifyDataDir(context.Background(), *dataDir)
	if err != nil {
		return err
	}
	fmt.Println(rep)
	return nil
}

// drill proves a backup is restorable: snapshot, restore into a
// scratch directory, then check the restored store decodes to the
// same tasks, score and reminders as the source.
func cmdDrill(args []string) error {
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	workDir := fs.String("work-dir", os.TempDir(), "temporary workspace for drill artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(*workDir, 0o755); err != nil {
		return err
	}
	ts := time.Now().UTC().Format("20060102T150405Z")
	archive := filepath.Join(*workDir, "planning-drill-"+ts+".tar.gz")
	restoreDir := filepath.Join(*workDir, "planning-drill-restore-"+ts)

	if err := ops.BackupDataDir(*dataDir, archive); err != nil {
		return err
	}
	if err := ops.RestoreDataDir(archive, restoreDir); err != nil {
		return err
	}

	ctx := context.Background()
	srcRep, err := ops.VerifyDataDir(ctx, *dataDir)
	if err != nil {
		return fmt.Errorf("verify source: %w", err)
	}
	restoredRep, err := ops.VerifyDataDir(ctx, restoreDir)
	if err != nil {
		return fmt.Errorf("verify restored: %w", err)
	}
	if *srcRep != *restoredRep {
		return fmt.Errorf("report mismatch after restore: src=%s restored=%s", srcRep, restoredRep)
	}

	fmt.Println("backup:", archive)
	fmt.Println("restored:", restoreDir)
	fmt.Println("report:", srcRep)
	return nil
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  planning-ops backup  --data-dir data --out backups/backup.tar.gz")
	fmt.Println("  planning-ops restore --archive backups/backup.tar.gz --target-dir data-restored")
	fmt.Println("  planning-ops verify  --data-dir data")
	fmt.Println("  planning-ops drill   --data-dir data --work-dir /tmp")
}
