// file: cmd/inspect/main.go
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/meta-node-blockchain/om-generals/pkg/archive"
	"github.com/meta-node-blockchain/om-generals/pkg/loggerfile"
	"github.com/meta-node-blockchain/om-generals/pkg/report"
	"github.com/meta-node-blockchain/om-generals/pkg/storage"
)

func main() {
	dbType := flag.String("type", storage.STORAGE_TYPE_LEVEL_DB, "Archive backend: level or badger")
	dbPath := flag.String("path", "data/missions", "Archive database directory")
	missionID := flag.String("id", "", "Show a single mission instead of listing all")
	snapshot := flag.Bool("snapshot", false, "Copy the database first so a locked archive can be read")
	traceFile := flag.String("trace", "", "Print the events of one general's trace file instead")
	flag.Parse()

	if *traceFile != "" {
		if err := printTrace(*traceFile); err != nil {
			log.Fatalf("Trace %s: %v", *traceFile, err)
		}
		return
	}

	path := *dbPath
	if *snapshot {
		tmp, err := os.MkdirTemp("", "om-inspect-")
		if err != nil {
			log.Fatalf("Cannot create snapshot dir: %v", err)
		}
		defer os.RemoveAll(tmp)
		path = filepath.Join(tmp, filepath.Base(*dbPath))
		if err := storage.Snapshot(*dbPath, path); err != nil {
			log.Fatalf("Snapshot failed: %v", err)
		}
		// A copied LOCK file would still refuse a second opener.
		os.Remove(filepath.Join(path, "LOCK"))
	}

	db, err := storage.LoadDb(path, *dbType)
	if err != nil {
		log.Fatalf("Cannot open archive %s: %v", path, err)
	}
	defer db.Close()
	store := archive.NewStore(db)

	if *missionID != "" {
		rec, err := store.Load(*missionID)
		if err != nil {
			log.Fatalf("Mission %s: %v", *missionID, err)
		}
		if err := report.Print(rec); err != nil {
			log.Fatalf("Render: %v", err)
		}
		return
	}

	recs, err := store.List()
	if err != nil {
		log.Fatalf("List missions: %v", err)
	}
	if len(recs) == 0 {
		pterm.Info.Println("Archive is empty")
		return
	}
	table, err := report.List(recs)
	if err != nil {
		log.Fatalf("Render: %v", err)
	}
	pterm.DefaultSection.Printfln("%d missions in %s", len(recs), *dbPath)
	pterm.Println(table)
}

func printTrace(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data := pterm.TableData{{"general", "round", "phase", "payload"}}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ev, err := loggerfile.DecodeEvent(scanner.Bytes())
		if err != nil {
			return err
		}
		data = append(data, []string{
			strconv.Itoa(ev.ParticipantID),
			strconv.Itoa(ev.Round),
			string(ev.Phase),
			fmt.Sprint(ev.Payload),
		})
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
