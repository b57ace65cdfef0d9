package app

import (
	"fmt"

	"github.com/kobzarvs/elastictabs/internal/config"
	"github.com/kobzarvs/elastictabs/internal/editor"
	"github.com/kobzarvs/elastictabs/internal/logger"
	"github.com/kobzarvs/elastictabs/internal/tabstops"
)

// fileDoc is an editor buffer without a caret. Whole-file reformatting has
// no caret columns to protect.
type fileDoc struct {
	*editor.Editor
}

func (fileDoc) ActiveColumns() map[int][]int {
	return nil
}

// reformat realigns every file in place. With check set files are left
// untouched and an error lists how many would change.
func (a *App) reformat(cfg config.Config, files []string, check bool) error {
	aligner := tabstops.New(cfg.Elastic.Table())
	pending := 0
	for _, path := range files {
		if cfg.FileTypes.Match(path) == nil {
			logger.Debug("file skipped", "path", path, "reason", "file type")
			continue
		}
		ed := editor.New(cfg)
		if err := ed.Open(path); err != nil {
			return err
		}
		doc := fileDoc{ed}
		if check {
			if _, changed := aligner.ProcessAll(doc); changed {
				pending++
				fmt.Fprintf(a.out, "%s: needs realignment\n", path)
			}
			continue
		}
		changed, err := aligner.RunAll(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if !changed {
			continue
		}
		if err := ed.Save(); err != nil {
			return err
		}
		logger.Info("file reformatted", "path", path)
		fmt.Fprintf(a.out, "%s: realigned\n", path)
	}
	if pending > 0 {
		return fmt.Errorf("%d file(s) need realignment", pending)
	}
	return nil
}
