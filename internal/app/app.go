package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/elastictabs/internal/config"
	"github.com/kobzarvs/elastictabs/internal/editor"
	"github.com/kobzarvs/elastictabs/internal/logger"
	"github.com/kobzarvs/elastictabs/internal/schedule"
	"github.com/kobzarvs/elastictabs/internal/session"
)

const usage = "usage: etabs [-check] [-debug] FILE... | etabs -edit [-debug] FILE"

// App is the top-level runtime for etabs.
type App struct {
	args []string
	out  io.Writer
}

func New(args []string) *App {
	return &App{args: args, out: os.Stdout}
}

func (a *App) Run() error {
	fs := flag.NewFlagSet("etabs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	check := fs.Bool("check", false, "report files that need realignment without writing them")
	edit := fs.Bool("edit", false, "open FILE in the interactive editor")
	debug := fs.Bool("debug", false, "write debug logs")
	if err := fs.Parse(a.args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}

	if err := logger.Init(*debug); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Info("config loaded", "debounce", cfg.Elastic.Debounce(), "classifier", cfg.Elastic.Classifier)

	files := fs.Args()
	switch {
	case *edit && len(files) == 1:
		return a.edit(cfg, files[0])
	case *edit, len(files) == 0:
		return errors.New(usage)
	}
	return a.reformat(cfg, files, *check)
}

func (a *App) edit(cfg config.Config, path string) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	ed := editor.New(cfg)
	if err := ed.Open(path); err != nil {
		return err
	}
	return a.loop(s, ed, cfg)
}

// dirtyRows travels from the scheduler goroutine to the event loop inside
// a tcell interrupt event.
type dirtyRows struct {
	id   string
	rows []int
}

// loop runs the interactive session. Only user edits feed the scheduler;
// alignment and undo/redo changes are dropped so realigning never triggers
// itself.
func (a *App) loop(s tcell.Screen, ed *editor.Editor, cfg config.Config) error {
	id := ed.Filename()
	sm := session.NewManager(cfg.Elastic.Table())
	defer sm.Forget(id)
	sm.SetSelectedRows(id, ed.SelectedRows())

	sched := schedule.New(cfg.Elastic.Debounce(), func(id string, rows []int) {
		if err := s.PostEvent(tcell.NewEventInterrupt(dirtyRows{id: id, rows: rows})); err != nil {
			logger.Warn("dropped realignment", "doc", id, "error", err)
		}
	})
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() { _ = sched.Stop() }()

	ed.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if d, ok := ev.Data().(dirtyRows); ok && d.id == id {
				realign(ed, sm, id, d.rows)
			}
		}
		if ed.ConsumeReformatRequest() {
			realign(ed, sm, id, allRows(ed))
		}
		for _, ch := range ed.Changes() {
			if ch.Source != editor.SourceUser {
				continue
			}
			current := append(append([]int(nil), ch.Rows...), ed.SelectedRows()...)
			sched.Notify(id, sm.DirtyRows(id, current)...)
		}
		sm.SetSelectedRows(id, ed.SelectedRows())
		ed.Render(s)
	}
}

func realign(ed *editor.Editor, sm *session.Manager, id string, rows []int) {
	changed, err := sm.Aligner(id).Run(ed, rows)
	if err != nil {
		logger.Error("realignment failed", "doc", id, "error", err)
		ed.SetStatusMessage(err.Error())
		return
	}
	if changed {
		logger.Debug("realigned", "doc", id, "rows", len(rows))
	}
}

func allRows(ed *editor.Editor) []int {
	rows := make([]int, ed.LineCount())
	for i := range rows {
		rows[i] = i
	}
	return rows
}
