package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/hotel-staff-agent/internal/activation"
	"github.com/example/hotel-staff-agent/internal/breakfast"
	"github.com/example/hotel-staff-agent/internal/identity"
	"github.com/example/hotel-staff-agent/internal/photo"
	"github.com/example/hotel-staff-agent/internal/report"
	"github.com/example/hotel-staff-agent/internal/role"
	"github.com/example/hotel-staff-agent/internal/view/console"
)

// agent binds the role-specific workflow to the interactive prompt. Exactly
// one of breakfast or report is non-nil, matching the configured role.
type agent struct {
	role       role.Role
	activation *activation.Client
	identities *identity.Store
	deviceID   string
	ui         *console.Console
	logger     *slog.Logger

	breakfast *breakfast.Workflow
	photos    *photo.Queue
	report    *report.Workflow
}

// firstLoad performs the initial data fetch for the role's workflow.
func (a *agent) firstLoad(ctx context.Context) error {
	if a.breakfast != nil {
		return a.breakfast.LoadDay(ctx, breakfast.DateOf(time.Now()))
	}
	return a.report.RefreshOpenItems(ctx)
}

func (a *agent) commandLoop(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		a.dispatch(ctx, fields[0], fields[1:])
	}
}

func (a *agent) dispatch(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		a.printHelp()
	case "status":
		fmt.Printf("Zařízení %s, stav: %s\n", a.deviceID, a.activation.Status())
	case "name":
		if len(args) == 0 {
			fmt.Println("Použití: name <jméno>")
			return
		}
		name := strings.Join(args, " ")
		if _, err := a.identities.Update(ctx, identity.Update{DisplayName: &name}); err != nil {
			a.logger.Error("failed to update display name", "error", err)
			return
		}
		fmt.Println("Jméno zařízení bylo uloženo.")
	case "day":
		a.breakfastOnly(func() {
			date, err := breakfast.ParseDate(argOr(args, 0))
			if err != nil {
				fmt.Println("Použití: day RRRR-MM-DD")
				return
			}
			_ = a.breakfast.LoadDay(ctx, date)
		})
	case "prev":
		a.breakfastOnly(func() { _ = a.breakfast.Navigate(ctx, -1) })
	case "next":
		a.breakfastOnly(func() { _ = a.breakfast.Navigate(ctx, 1) })
	case "checkin":
		a.breakfastOnly(func() {
			room, err := strconv.Atoi(argOr(args, 0))
			if err != nil {
				fmt.Println("Použití: checkin <pokoj>")
				return
			}
			_ = a.breakfast.CheckIn(ctx, room)
		})
	case "report":
		a.reportOnly(func() {
			room, err := strconv.Atoi(argOr(args, 0))
			if err != nil {
				fmt.Println("Použití: report <pokoj> [popis]")
				return
			}
			draft := report.Draft{Room: room, Description: strings.Join(args[1:], " ")}
			_ = a.report.Submit(ctx, draft)
		})
	case "photo":
		a.reportOnly(func() { a.addPhoto(ctx, argOr(args, 0)) })
	case "photo-rm":
		a.reportOnly(func() {
			index, err := strconv.Atoi(argOr(args, 0))
			if err != nil || !a.photos.RemoveAt(ctx, index) {
				fmt.Println("Neplatný index fotografie.")
			}
		})
	case "open":
		a.reportOnly(func() { _ = a.report.RefreshOpenItems(ctx) })
	case "done":
		a.reportOnly(func() {
			id, err := strconv.ParseInt(argOr(args, 0), 10, 64)
			if err != nil {
				fmt.Println("Použití: done <id>")
				return
			}
			_ = a.report.MarkDone(ctx, id)
		})
	default:
		fmt.Println("Neznámý příkaz. Napište help.")
	}
}

func (a *agent) addPhoto(ctx context.Context, path string) {
	if path == "" {
		fmt.Println("Použití: photo <soubor>")
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Soubor se nepodařilo načíst.")
		return
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	blob := photo.Blob{Name: filepath.Base(path), MIME: mimeType, Data: data}
	if a.photos.Add(ctx, blob) == 0 {
		fmt.Println("Fotografii nelze přidat (plná fronta nebo nepodporovaný typ).")
	}
}

func (a *agent) breakfastOnly(run func()) {
	if a.breakfast == nil {
		fmt.Println("Tento příkaz je dostupný jen pro roli breakfast.")
		return
	}
	run()
}

func (a *agent) reportOnly(run func()) {
	if a.report == nil {
		fmt.Println("Tento příkaz není dostupný pro roli breakfast.")
		return
	}
	run()
}

func (a *agent) printHelp() {
	fmt.Println("Příkazy: status, name <jméno>, quit")
	if a.breakfast != nil {
		fmt.Println("  day RRRR-MM-DD, prev, next, checkin <pokoj>")
		return
	}
	fmt.Println("  report <pokoj> [popis], photo <soubor>, photo-rm <index>, open, done <id>")
}

func argOr(args []string, index int) string {
	if index < len(args) {
		return args[index]
	}
	return ""
}
