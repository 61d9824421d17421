package serverapp

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/vividhneo/dailytasksv3/internal/clock"
	"github.com/vividhneo/dailytasksv3/internal/config"
	"github.com/vividhneo/dailytasksv3/internal/httpmw"
	"github.com/vividhneo/dailytasksv3/internal/profile"
	"github.com/vividhneo/dailytasksv3/internal/rollover"
	"github.com/vividhneo/dailytasksv3/internal/server"
	"github.com/vividhneo/dailytasksv3/internal/storage"
	"github.com/vividhneo/dailytasksv3/internal/task"
	"github.com/vividhneo/dailytasksv3/internal/telemetry"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
	Clock  clock.Clock
	// KV overrides the file adapter; tests pass a MemoryKV here.
	KV storage.KV
}

// App holds the wired stores, engine and HTTP handler.
// This makes it obvious what the handlers depend on.
type App struct {
	Handler  http.Handler
	Tasks    *task.Store
	Profiles *profile.Store
	Rollover *rollover.Engine
	Events   telemetry.Repository

	cfg    *config.Config
	logger *log.Logger
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}

	kv := opts.KV
	if kv == nil {
		fileKV, err := storage.NewFileKV(opts.Config.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		kv = fileKV
	}

	tasks, err := task.NewStore(kv, opts.Clock)
	if err != nil {
		return nil, err
	}
	profiles, err := profile.NewStore(kv, opts.Clock, opts.Config.Profiles.DefaultName)
	if err != nil {
		return nil, err
	}
	tasks.SetProfileChecker(profiles)
	profiles.SetTaskPurger(tasks)

	events := telemetry.NewMemoryRepository(opts.Clock)

	engine := rollover.NewEngine(kv, tasks, profiles, opts.Clock, opts.Logger)
	engine.SetEventLog(events)

	taskHandler := task.NewHandler(tasks)
	taskHandler.SetEventLog(events)
	profileHandler := profile.NewHandler(profiles)
	profileHandler.SetEventLog(events)
	rolloverHandler := rollover.NewHandler(engine)
	statsHandler := telemetry.NewHandler(events, opts.Clock)

	router := server.NewRouter()

	router.HandleUndocumented("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		fmt.Fprintf(w, `{"ok":true,"service":"dailytasks","time":%q}`+"\n",
			time.Now().UTC().Format(time.RFC3339))
	})

	router.Handle("GET /api/tasks", "List tasks for a profile and day", "", taskHandler.List)
	router.Handle("POST /api/tasks", "Create task", `{"text":"water plants","profileId":"profile_…","date":"2024-01-01"}`, taskHandler.Create)
	router.Handle("PATCH /api/tasks/{id}", "Set task completion", `{"completed":true}`, taskHandler.Patch)
	router.Handle("DELETE /api/tasks/{id}", "Delete task", "", taskHandler.Delete)

	router.Handle("GET /api/profiles", "List profiles", "", profileHandler.List)
	router.Handle("POST /api/profiles", "Create profile", `{"name":"Work"}`, profileHandler.Create)
	router.Handle("PATCH /api/profiles/{id}", "Rename profile", `{"name":"Side projects"}`, profileHandler.Patch)
	router.Handle("DELETE /api/profiles/{id}", "Delete profile and its tasks", "", profileHandler.Delete)
	router.Handle("GET /api/profiles/current", "Get the active profile", "", profileHandler.Current)
	router.Handle("PUT /api/profiles/current", "Switch the active profile", `{"id":"profile_…"}`, profileHandler.SetCurrent)

	router.Handle("GET /api/rollover", "Rollover bookkeeping status", "", rolloverHandler.Status)
	router.Handle("POST /api/rollover/run", "Run the daily rollover check now", "", rolloverHandler.Run)

	router.Handle("GET /api/stats", "Usage stats since a date", "", statsHandler.Stats)

	router.HandleUndocumented("GET /api/routes", router.Docs)

	handler := httpmw.Chain(router,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithAccessLog(opts.Logger),
	)

	return &App{
		Handler:  handler,
		Tasks:    tasks,
		Profiles: profiles,
		Rollover: engine,
		Events:   events,
		cfg:      opts.Config,
		logger:   opts.Logger,
	}, nil
}

// Start runs the on-load rollover check and begins the periodic one.
func (a *App) Start() error {
	if a.cfg.Rollover.RunOnStart {
		if _, err := a.Rollover.RunOnce(); err != nil {
			return fmt.Errorf("startup rollover: %w", err)
		}
	}
	return a.Rollover.Start(a.cfg.Rollover.Schedule)
}

func (a *App) Stop() {
	a.Rollover.Stop()
}
