// Package report renders archived mission records for the terminal.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/meta-node-blockchain/om-generals/pkg/archive"
)

func orderName(attack bool) string {
	if attack {
		return "ATTACK"
	}
	return "RETREAT"
}

func verdict(ok bool) string {
	if ok {
		return pterm.LightGreen("yes")
	}
	return pterm.LightRed("no")
}

// Summary is the boxed header of one mission.
func Summary(rec *archive.Record) string {
	body := pterm.Sprintfln("mission   %s", rec.MissionID) +
		pterm.Sprintfln("generals  %d (tolerating %d traitors, %d rounds)", rec.Generals, rec.Faults, rec.Faults+1) +
		pterm.Sprintfln("order     %s", orderName(rec.Order)) +
		pterm.Sprintfln("traitors  %v (%s)", rec.Traitors, rec.Behavior) +
		pterm.Sprintfln("messages  %d", rec.Messages) +
		pterm.Sprintfln("agreement %s", verdict(rec.Agreement)) +
		pterm.Sprintf("validity  %s", verdict(rec.Validity))
	return pterm.DefaultBox.
		WithHorizontalPadding(2).
		WithTitle(pterm.LightYellow("|MISSION|")).
		WithTitleTopCenter().
		Sprint(body)
}

// Decisions renders one row per general.
func Decisions(rec *archive.Record) (string, error) {
	data := pterm.TableData{{"general", "role", "loyal", "decision", "tree nodes"}}
	for _, d := range rec.Decisions {
		role := "lieutenant"
		if d.ID == 0 {
			role = "commander"
		}
		loyal := pterm.LightGreen("loyal")
		if d.Faulty {
			loyal = pterm.LightRed("traitor")
		}
		data = append(data, []string{
			strconv.FormatUint(uint64(d.ID), 10),
			role,
			loyal,
			orderName(d.Decision),
			strconv.FormatUint(uint64(d.Messages), 10),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// List renders one row per archived mission.
func List(recs []*archive.Record) (string, error) {
	data := pterm.TableData{{"mission", "created", "n", "m", "order", "traitors", "agreement", "validity"}}
	for _, rec := range recs {
		data = append(data, []string{
			rec.MissionID,
			time.Unix(rec.CreatedAt, 0).Format(time.DateTime),
			strconv.FormatUint(uint64(rec.Generals), 10),
			strconv.FormatUint(uint64(rec.Faults), 10),
			orderName(rec.Order),
			fmt.Sprint(rec.Traitors),
			verdict(rec.Agreement),
			verdict(rec.Validity),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// Print writes the summary and the decision table to stdout.
func Print(rec *archive.Record) error {
	table, err := Decisions(rec)
	if err != nil {
		return err
	}
	pterm.Println(Summary(rec))
	pterm.Println(table)
	return nil
}
