/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/valpere/revsense/internal/config"
	"github.com/valpere/revsense/internal/detector"
	"github.com/valpere/revsense/internal/pipeline"
	"github.com/valpere/revsense/internal/results"
	"github.com/valpere/revsense/internal/sentiment"
	"github.com/valpere/revsense/internal/store"
	"github.com/valpere/revsense/internal/translator"
)

func buildDetector(c *config.Config) (detector.LanguageDetector, error) {
	switch c.Detector {
	case "lingua":
		return detector.New(), nil
	case "google":
		return detector.NewGoogleDetector(c.Google.Credentials), nil
	default:
		return nil, fmt.Errorf("unknown detector: %s", c.Detector)
	}
}

func buildTranslator(c *config.Config) (translator.TranslationService, error) {
	switch c.Translator {
	case "mymemory":
		return translator.NewMyMemoryService(c.MyMemory.Email), nil
	case "google":
		return translator.NewGoogleService(c.Google.Credentials, c.Google.Project), nil
	default:
		return nil, fmt.Errorf("unknown translator: %s", c.Translator)
	}
}

// buildPipeline constructs the process-wide service handles once. The
// returned close function releases API clients and the history database.
func buildPipeline(c *config.Config) (*pipeline.Pipeline, func() error, error) {
	det, err := buildDetector(c)
	if err != nil {
		return nil, nil, err
	}

	tr, err := buildTranslator(c)
	if err != nil {
		return nil, nil, err
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}

	var closers []io.Closer
	for _, svc := range []any{det, tr} {
		if closer, ok := svc.(io.Closer); ok {
			closers = append(closers, closer)
		}
	}

	if c.HistoryDB != "" {
		db, err := store.New(c.HistoryDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history database: %w", err)
		}
		opts = append(opts, pipeline.WithHistory(db))
		closers = append(closers, db)
	}

	closeFn := func() error {
		var errs []error
		for _, closer := range closers {
			errs = append(errs, closer.Close())
		}
		return errors.Join(errs...)
	}

	logger.Debug("services ready", "detector", det.Name(), "translator", tr.Name(), "results", c.ResultsPath)

	p := pipeline.New(det, tr, sentiment.NewVaderScorer(), results.NewLogger(c.ResultsPath), opts...)
	return p, closeFn, nil
}
