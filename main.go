package main

import (
	"log"
	"net/http"
	"time"

	"github.com/vividhneo/dailytasksv3/internal/config"
	"github.com/vividhneo/dailytasksv3/internal/model"
	"github.com/vividhneo/dailytasksv3/internal/serverapp"
	"github.com/vividhneo/dailytasksv3/internal/storage"
)

const addr = ":8080"

// Dev entry: in-memory storage, seeded with sample data. The persistent
// server lives in cmd/server.
func main() {
	cfg := config.Default()
	cfg.Rollover.RunOnStart = false

	app, err := serverapp.New(serverapp.Options{
		Config: cfg,
		KV:     storage.NewMemoryKV(),
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := seed(app); err != nil {
		log.Fatal(err)
	}

	log.Printf("dailytasks dev server on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, app.Handler))
}

func seed(app *serverapp.App) error {
	work, err := app.Profiles.Add("Work")
	if err != nil {
		return err
	}

	today := model.DateOf(time.Now())
	yesterday := today.AddDays(-1)

	personal := app.Profiles.CurrentID()
	for _, s := range []struct {
		text      string
		date      model.Date
		profileID model.ProfileID
	}{
		{"water plants", today, personal},
		{"pick up eggs", today, personal},
		{"send weekly report", yesterday, work.ID},
		{"book flights", today, work.ID},
	} {
		if _, err := app.Tasks.Add(s.text, s.date, s.profileID); err != nil {
			return err
		}
	}
	return nil
}
